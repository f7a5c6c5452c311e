// Package streamtest provides conformance test suites for sessio stream
// implementations.
//
// Custom [sessio.Output] and [sessio.Input] implementations (capture
// buffers, transcript tees, network sinks) run the suites to verify the
// behavioral contract the broker relies on: ordered writes, flush
// visibility, exact reads that go short only at end of stream, and line
// reads that deliver the final partial line.
package streamtest
