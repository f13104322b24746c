// Package statelog persists the states produced by a fold.
//
// The log is a plain text file holding one state per append, each followed
// by a newline. FileSink opens, writes and closes the file on every append
// so a concurrent reader always sees completed states:
//
//	sink := statelog.NewFileSink(afero.NewOsFs(), "results/states.txt")
//	folder := fold.New(client, builder, fold.WithSink(sink))
//
// Follow tails a log while a run is writing it, and LastState recovers the
// final line of a previous run to seed a new one.
package statelog
