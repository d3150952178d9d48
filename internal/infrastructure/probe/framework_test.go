package probe

import (
	"testing"

	"cliscope/internal/domain"
)

const cobraHelp = `A tool for managing widgets.

Usage:
  widgetctl [command]

Available Commands:
  create      Create a widget
  delete      Delete a widget

Flags:
  -h, --help   help for widgetctl

Use "widgetctl [command] --help" for more information about a command.
`

const clickHelp = `Usage: mytool [OPTIONS] COMMAND [ARGS]...

  A sample deployment tool.

Options:
  --debug  Enable debug output.
  --help   Show this message and exit.

Commands:
  deploy  Deploy the application
  status  Show deployment status
`

const argparseHelp = `usage: mytool [-h] {run,stop} ...

positional arguments:
  {run,stop}  subcommand to execute

optional arguments:
  -h, --help  show this help message and exit
`

func TestDetectCobra(t *testing.T) {
	framework, confidence := NewFingerprinter().Detect(cobraHelp)
	if framework != domain.FrameworkCobra {
		t.Fatalf("expected cobra, got %s (confidence %d)", framework, confidence)
	}
	if confidence < 2 {
		t.Fatalf("expected confidence >= 2, got %d", confidence)
	}
}

func TestDetectClick(t *testing.T) {
	framework, _ := NewFingerprinter().Detect(clickHelp)
	if framework != domain.FrameworkClick {
		t.Fatalf("expected click, got %s", framework)
	}
}

func TestDetectArgparse(t *testing.T) {
	framework, _ := NewFingerprinter().Detect(argparseHelp)
	if framework != domain.FrameworkArgparse {
		t.Fatalf("expected argparse, got %s", framework)
	}
}

func TestDetectUnknownBelowThreshold(t *testing.T) {
	framework, _ := NewFingerprinter().Detect("mytool: a tool that does things\n\ntry --help\n")
	if framework != domain.FrameworkUnknown {
		t.Fatalf("expected unknown, got %s", framework)
	}
}
