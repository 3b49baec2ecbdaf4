// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates and decodes structured documents against an
// embedded CUE schema.
//
// Module metadata files, repository index files and the modgraph
// configuration all go through the same three steps:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Compile the document and unify it with that definition
//  3. Validate and decode into a Go struct
//
// JSON documents are valid CUE, so module.txt files decode through the same
// path as hand-written .cue files.
//
//	//go:embed modinfo_schema.cue
//	var schema []byte
//
//	raw, err := cueutil.ParseAndDecode[rawModule](schema, data, "#Module",
//	    cueutil.WithFilename(path))
//	if err != nil {
//	    return err // already carries the file name and field path
//	}
package cueutil
