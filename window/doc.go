// Package window splits a document into overlapping fixed-size word windows.
//
// A document is its whitespace-delimited words. Windows of size words start
// at offsets 0, size-overlap, 2*(size-overlap), ... and are emitted only
// while the whole window fits inside the document:
//
//	words := window.Words("a b c d e f")
//	windows, _ := window.Split(words, 3, 1)
//	// windows: ["a b c", "c d e"]; the trailing "f" is dropped
//
// The trailing remainder shorter than size is never emitted. Use Dropped to
// find out how many words a configuration leaves out.
//
// Documents shorter than size are returned whole as a single window.
package window
