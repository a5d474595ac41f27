// Package loader finds specification files and reads their content.
//
// Discovery walks a directory tree recursively in lexical order and keeps
// every regular file whose base name matches a doublestar pattern such as
// "*.spec.*". A path naming a file directly is used as-is, whatever its name.
package loader
