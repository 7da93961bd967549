// Package files reads the text of input files for the loader.
//
// Manager checks that a file exists and reads it whole, decoding it from its
// configured encoding to UTF-8 with golang.org/x/text. A leading byte order
// mark is dropped:
//
//	manager := files.NewManager(logger)
//	data, err := manager.ReadText("Prenoms2003.csv", "latin1")
//
// Missing files are reported as NOT_FOUND errors and undecodable content as
// PARSING errors. NewEncodingWriter is the inverse used by the exporter.
package files
