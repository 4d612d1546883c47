// Package mindmap provides the JSON (and BSON) formats that surround the
// engine: ingestion data, persisted documents and exported snapshots.
//
// # JSON Format
//
// Ingestion data is an object with a "nodes" array:
//
//	{
//	  "nodes": [
//	    {"id": "root", "title": "Topic", "description": "", "parentId": null, "level": 0},
//	    {"id": "a", "title": "Branch", "parentId": "root", "level": 1, "pageNumber": 3}
//	  ]
//	}
//
// A persisted [Document] uses the same node objects plus optional
// "positionX"/"positionY" fields, and adds "id", "title", "collapsed",
// "presetIndex" and "updatedAt" at the top level. Every ingestion file is
// therefore a valid document, and [ReadDocument] accepts both.
//
// # Restore and Capture
//
// [Document.Restore] seeds an engine from a document, so stored positions
// survive reload. [Capture] does the reverse after the user worked on the
// diagram.
package mindmap
