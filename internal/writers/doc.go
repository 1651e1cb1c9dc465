// Package writers renders CLI reports about contigs.
//
// Each report kind (summaries, tilings, index entries) has a registry that
// maps an output format to a handler. Handlers own all presentation:
// aligned text with a styled header, TSV, or indented JSON.
package writers
