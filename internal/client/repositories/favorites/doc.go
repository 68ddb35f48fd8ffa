// Package favorites persists a user's starred translations under
// {user}_favorites. The collection is kept independently of history, newest
// favorite first, with at most one entry per record id.
package favorites
