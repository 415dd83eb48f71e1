package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"dcmview/infrastructure/config"
)

const (
	runMainEnv = "DCMVIEW_TEST_RUN_MAIN"
	fileArgEnv = "DCMVIEW_TEST_FILE"
)

// TestMain lets the test binary stand in for dcmview: with runMainEnv set
// it runs main with the file from fileArgEnv as its only argument.
func TestMain(m *testing.M) {
	if os.Getenv(runMainEnv) == "1" {
		os.Args = []string{"dcmview"}
		if file := os.Getenv(fileArgEnv); file != "" {
			os.Args = append(os.Args, file)
		}
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestMain_ExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exit status -1 is reported as 255 on POSIX only")
	}

	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.dcm")
	if err := os.WriteFile(garbage, []byte("this is not a DICOM file"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	tests := []struct {
		name       string
		file       string
		wantStdout string
		wantStderr string
	}{
		{
			name:       "missing argument",
			wantStdout: "",
			wantStderr: "Application needs at least one argument!",
		},
		{
			name:       "missing file",
			file:       filepath.Join(dir, "missing.dcm"),
			wantStdout: filepath.Join(dir, "missing.dcm") + "\n",
			wantStderr: "Invalid DICOM file:",
		},
		{
			name:       "not dicom",
			file:       garbage,
			wantStdout: garbage + "\n",
			wantStderr: "Invalid DICOM file:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0])
			cmd.Env = append(os.Environ(),
				runMainEnv+"=1",
				fileArgEnv+"="+tt.file,
				config.EnvPath+"="+filepath.Join(dir, "absent.yaml"),
			)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()

			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("expected a non-zero exit, got err = %v", err)
			}
			if got := exitErr.ExitCode(); got != 255 {
				t.Errorf("exit status = %d, want 255", got)
			}
			if got := stdout.String(); got != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", got, tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
