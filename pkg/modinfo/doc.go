// SPDX-License-Identifier: MPL-2.0

// Package modinfo reads per-module metadata files (module.txt) into a module
// identity and its ordered dependency declarations.
//
// A metadata file is a JSON object:
//
//	{
//	  "id": "Core",
//	  "version": "2.0.0-SNAPSHOT",
//	  "displayName": "Core Gameplay",
//	  "dependencies": [
//	    {"id": "engine", "minVersion": "4.0.0", "maxVersion": "5.0.0"},
//	    {"id": "BlockLibrary", "minVersion": "1.2.0", "optional": true}
//	  ]
//	}
//
// The file is validated against an embedded CUE schema before decoding; unknown
// fields are ignored. Reading has no side effects beyond the file read.
package modinfo
