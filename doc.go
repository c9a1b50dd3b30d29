// Package jsonconfig loads a JSON configuration document, exposes dotted-path
// access over it and persists it back to disk, optionally splitting selected
// top-level keys into their own files.
//
// A split key is written to a separate file and replaced in the main file by
// a marker string holding the path of that file relative to the main file's
// directory:
//
//	config.json   {"server":{"port":8080},"database":"@{database.json}"}
//	database.json {"dsn":"postgres://localhost/app"}
//
// Restore inlines every marker whose target file exists and records the key
// as a reference, so the next Save splits it out again. Markers pointing at a
// missing file are left untouched.
//
// Usage:
//
//	store := jsonconfig.New("/etc/app/config.json")
//	if err := store.Restore(ctx); err != nil {
//		return err
//	}
//	port := jsonconfig.GetAs(store, "server.port", float64(8080))
//	store.Set("server.host", "0.0.0.0").Del("server.legacy")
//	if err := store.Save(ctx); err != nil {
//		return err
//	}
//
// A Store has a single owner. It does no locking of its own.
package jsonconfig
