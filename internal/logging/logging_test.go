package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitWithWriterLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	InitWithWriter(&buf, false)
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info line missing: %q", out)
	}

	buf.Reset()
	InitWithWriter(&buf, true)
	log.Debug().Msg("verbose")
	if !strings.Contains(buf.String(), "verbose") {
		t.Errorf("debug line missing in verbose mode: %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, false)
	logger := WithComponent("splitter")
	logger.Info().Msg("hello")
	if !strings.Contains(buf.String(), "component=splitter") {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestWithRun(t *testing.T) {
	var buf bytes.Buffer
	logger, id := WithRun(zerolog.New(&buf))
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("run id is not a uuid: %v", err)
	}
	logger.Info().Msg("run")
	if !strings.Contains(buf.String(), `"run_id":"`+id+`"`) {
		t.Errorf("expected run id in output, got %q", buf.String())
	}
}
