// Package ingest turns a parsed submission into a stored blueprint.
//
// The pipeline checks the document before touching anything, resolves the
// series (creating and committing it when new), takes the next blueprint
// number, downloads the linked files into the new blueprint folder, writes
// blueprint.json, validates the folder as a whole, and inserts the row in the
// same transaction that assigned the number. Any failure after the folder
// was created removes it again; only a newly created series survives.
package ingest
