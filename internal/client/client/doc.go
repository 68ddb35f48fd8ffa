// Package client contains client-side building blocks for BabelX.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract for the remote collaborators (see the
//     Client interface): Translate and Transcribe.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that posts
//     {q, source, target} to the translate endpoint and uploads audio as a
//     multipart "file" field to the transcribe endpoint.
//  3. Local persistence bootstrap (OpenStorage, RunMigrations) for the CLI,
//     wiring an SQLite or bbolt key-value store and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Remote failures are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable when the endpoint cannot be reached, ErrRemote
// when it answers with a non-2xx status or an unreadable body.
//
// See Also
//
//   - Interface:  Client
//   - HTTP impl:  HTTPClient
//   - Storage:    OpenStorage, RunMigrations
package client
