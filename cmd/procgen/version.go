package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/nao1215/procgen/internal/config"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// shortCommitLength is the number of revision characters shown.
const shortCommitLength = 7

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Modified  bool
}

// readBuildInfo merges ldflags values with the module build information.
// ldflags win; missing values fall back to "(devel)" and "unknown".
func readBuildInfo() buildInfo {
	info := buildInfo{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	if info.Version == "" {
		info.Version = "(devel)"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	} else if len(info.Commit) > shortCommitLength {
		info.Commit = info.Commit[:shortCommitLength]
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

// getVersion returns the version shown by --version.
func getVersion() string {
	return readBuildInfo().Version
}

// writeVersion prints the build information followed by the generate
// defaults compiled into the binary.
func writeVersion(w io.Writer, info buildInfo) error {
	commitSuffix := ""
	if info.Modified {
		commitSuffix = " (modified)"
	}

	_, err := fmt.Fprintf(w, `procgen version %s
  commit: %s%s
  built:  %s
  go:     %s

defaults:
  input:   %s
  output:  %s
  limit:   %d
  env var: %s
  config:  %s
`,
		info.Version,
		info.Commit, commitSuffix,
		info.Date,
		info.GoVersion,
		config.DefaultInputPath,
		config.DefaultOutputPath,
		config.DefaultSampleLimit,
		config.DefaultDestinationEnv,
		config.DefaultConfigFile,
	)
	return err
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information and built-in defaults",
		Long: `Print the version, commit hash, build date and Go version of procgen,
followed by the defaults generate uses when no flag or settings file
overrides them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeVersion(cmd.OutOrStdout(), readBuildInfo())
		},
	}
}
