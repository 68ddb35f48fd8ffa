// Package cli provides the interactive BabelX command-line client.
//
// It wires configuration, local storage, the remote translator and an
// interactive REPL. Typical flow: resume the remembered user or log in,
// then translate text or audio and manage history and favorites.
//
// Key features:
//   - SignUp / Login / Logout, password change, encrypted profile
//   - Translate text, transcribe and translate audio files
//   - History and favorites with star, unstar and delete
//   - Activity stats, language selection, S3 backup and restore
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Every screen reads through services.LibraryService and the REPL prints a
// notice for each change the library reports.
package cli
