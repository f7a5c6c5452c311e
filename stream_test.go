package sessio_test

import (
	"bytes"
	"testing"

	"github.com/sessio/sessio"
	"github.com/sessio/sessio/streamtest"
)

func TestOutput_Conformance(t *testing.T) {
	streamtest.RunOutputTests(t, func(sink *bytes.Buffer) sessio.Output {
		return sessio.NewOutput(sink)
	})
}

func TestInput_Conformance(t *testing.T) {
	streamtest.RunInputTests(t, sessio.NewInput)
}
