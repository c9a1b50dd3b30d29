package jsonconfig

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	Timeout string `json:"timeout"`
}

func newDecodeStore() *Store {
	return New("/srv/app/config.json").
		Set("server.host", "localhost").
		Set("server.port", float64(8080)).
		Set("limits.max", float64(10))
}

func TestDecodeSubtree(t *testing.T) {
	got, err := Decode[serverConfig](newDecodeStore(), "server")

	require.NoError(t, err)
	require.Equal(t, serverConfig{Host: "localhost", Port: 8080}, got)
}

func TestDecodeWholeTree(t *testing.T) {
	got, err := Decode[map[string]any](newDecodeStore(), "")

	require.NoError(t, err)
	require.Equal(t, "localhost", got["server"].(map[string]any)["host"])
}

func TestDecodeMissingPath(t *testing.T) {
	_, err := Decode[serverConfig](newDecodeStore(), "client")

	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestDecodeStrict(t *testing.T) {
	store := newDecodeStore().Set("server.extra", true)

	_, err := Decode(store, "server", DecodeStrict[serverConfig]())

	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "extra"), err.Error())
}

func TestDecodeUseNumber(t *testing.T) {
	got, err := Decode(newDecodeStore(), "limits", DecodeUseNumber[map[string]any]())

	require.NoError(t, err)
	require.Equal(t, json.Number("10"), got["max"])
}

func TestDecodeHooks(t *testing.T) {
	store := newDecodeStore()
	var seen string

	got, err := Decode(store, "server",
		DecodePreHook[serverConfig](func(path string, payload any) (any, error) {
			seen = path
			payload.(map[string]any)["host"] = "example.com"
			return payload, nil
		}),
		DecodePostHook[serverConfig](func(_ string, value *serverConfig) error {
			if value.Timeout == "" {
				value.Timeout = "30s"
			}
			return nil
		}),
	)

	require.NoError(t, err)
	require.Equal(t, "server", seen)
	require.Equal(t, serverConfig{Host: "example.com", Port: 8080, Timeout: "30s"}, got)
	require.Equal(t, "localhost", store.Get("server.host"))
}

func TestDecodePostHookError(t *testing.T) {
	invalid := errors.New("port out of range")

	_, err := Decode(newDecodeStore(), "server",
		DecodePostHook[serverConfig](func(string, *serverConfig) error { return invalid }),
	)

	require.ErrorIs(t, err, invalid)
}

func TestDecodeErrorNamesReferenceFile(t *testing.T) {
	store := newDecodeStore().Set("db.pool.size", "many")
	require.NoError(t, store.SetReference("db", "db.json"))

	_, err := Decode[struct {
		Size int `json:"size"`
	}](store, "db.pool")

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "decode", decodeErr.Stage)
	require.Equal(t, "db.pool", decodeErr.Path)
	require.Equal(t, "db", decodeErr.Reference)
	require.Equal(t, filepath.FromSlash("/srv/app/db.json"), decodeErr.File)
	require.Contains(t, err.Error(), "db.json")
}

func TestDecodeHookErrorsReportStage(t *testing.T) {
	invalid := errors.New("bad host")

	_, err := Decode(newDecodeStore(), "server",
		DecodePreHook[serverConfig](func(string, any) (any, error) { return nil, invalid }),
	)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "pre-hook", decodeErr.Stage)
	require.Equal(t, "/srv/app/config.json", decodeErr.File)
	require.Empty(t, decodeErr.Reference)
	require.ErrorIs(t, err, invalid)
}
