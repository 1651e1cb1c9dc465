package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acekit/core/ace"
	"acekit/internal/writers"
)

const twoContigs = `AS 2 2

CO c1 8 1 0 U
ACGTACGT

BQ
 10 20 30 40 10 20 30 40

AF r1 U 1

RD r1 8 0 0
ACGTACGT

QA 1 8 1 8
DS CHROMAT_FILE: r1 PHD_FILE: r1.phd.1 TIME: Thu Jan  1 00:00:00 2009

CO c2 6 1 0 U
AC*GTA

AF r2 C 1

RD r2 6 0 0
AC*GTA

QA 1 6 1 6
DS CHROMAT_FILE: r2

`

func aceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "two.ace")
	require.NoError(t, os.WriteFile(path, []byte(twoContigs), 0o644))
	return path
}

func noEnv(string) (string, bool) { return "", false }

type result struct {
	code   int
	stdout string
	stderr string
}

func runArgs(t *testing.T, ctx context.Context, env func(string) (string, bool), args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(ctx, args, &out, &errb, env)
	return result{code, out.String(), errb.String()}
}

func TestStatsTSV(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "stats", "-o", "tsv", aceFile(t))
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "contig\tlength\tungapped\treads\tstrand\tmean_qual\n"+
		"c1\t8\t8\t1\tU\t25.00\n"+
		"c2\t6\t5\t1\tU\tNA\n", r.stdout)
}

func TestStatsJSON(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "stats", "--output", "json", aceFile(t))
	require.Equal(t, 0, r.code, r.stderr)
	var got []writers.ContigSummary
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[1].ID)
	assert.Nil(t, got[1].MeanQuality)
}

func TestOutputFromEnvironment(t *testing.T) {
	env := func(k string) (string, bool) {
		if k == "ACEKIT_OUTPUT" {
			return "tsv", true
		}
		return "", false
	}
	r := runArgs(t, context.Background(), env, "tiling", aceFile(t))
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "contig\tread\tstart\tend\nc1\tr1\t1\t8\nc2\tr2\t1\t6\n", r.stdout)
}

func TestTilingSelectsContigs(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "tiling", "-o", "tsv", aceFile(t), "c2")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "contig\tread\tstart\tend\nc2\tr2\t1\t6\n", r.stdout)
}

func TestIDs(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "ids", "-o", "tsv", aceFile(t))
	require.Equal(t, 0, r.code, r.stderr)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "c1\t8\t"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "c2\t"), lines[2])
	assert.True(t, strings.HasSuffix(lines[2], "\t6\t1"), lines[2])
}

func TestIDsWithProgress(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "ids", "--progress", "-o", "json", aceFile(t))
	require.Equal(t, 0, r.code, r.stderr)
	var got []writers.IndexRow
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Len(t, got, 2)
	assert.NotEmpty(t, r.stderr, "progress bar goes to stderr")
}

func TestGetWritesParseableACE(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "get", aceFile(t), "c2")
	require.Equal(t, 0, r.code, r.stderr)
	f, err := ace.ReadAll(context.Background(), strings.NewReader(r.stdout))
	require.NoError(t, err)
	require.Len(t, f.Contigs, 1)
	assert.Equal(t, "c2", f.Contigs[0].ID())
	assert.Equal(t, "AC-GTA", f.Contigs[0].Consensus().String())
	assert.Equal(t, 1, f.NumContigs)
}

func TestGetUnknownContig(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "get", aceFile(t), "nope")
	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stderr, "contig not found")
}

func TestRewriteToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.ace")
	r := runArgs(t, context.Background(), noEnv, "rewrite", "--quality-threshold", "0", "--base-segments", "-O", out, aceFile(t))
	require.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, r.stdout)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "BS 1 8 r1\n")
	assert.NotContains(t, string(raw), "acGTacGT", "threshold 0 keeps upper case")
	f, err := ace.ReadAll(context.Background(), bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, f.Contigs, 2)
}

func TestRewriteLowersWithConfiguredThreshold(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "rewrite", aceFile(t))
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\nacGTacGT\n")
}

func TestUsageErrors(t *testing.T) {
	for name, args := range map[string][]string{
		"missing file":    {"stats"},
		"unknown command": {"frobnicate"},
		"unknown flag":    {"stats", "--bogus", "x.ace"},
		"bad output":      {"stats", "-o", "xml", "x.ace"},
		"bad threshold":   {"rewrite", "--quality-threshold", "-3", "x.ace"},
		"get without ids": {"get", "x.ace"},
	} {
		t.Run(name, func(t *testing.T) {
			r := runArgs(t, context.Background(), noEnv, args...)
			assert.Equal(t, exitUsage, r.code, r.stderr)
		})
	}
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "frobnicate", "x.ace")
	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, `unknown command "frobnicate" for "acekit"`)
	assert.Empty(t, r.stdout)

	r = runArgs(t, context.Background(), noEnv)
	assert.Equal(t, exitOK, r.code)
	assert.Contains(t, r.stdout, "Available Commands")
}

func TestMissingInputIsFailure(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "stats", filepath.Join(t.TempDir(), "absent.ace"))
	assert.Equal(t, exitFailure, r.code)
}

func TestBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queue_size: 0\n"), 0o644))
	r := runArgs(t, context.Background(), noEnv, "--config", path, "stats", aceFile(t))
	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, "queue_size")
}

func TestDebugLogsConfig(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "--log-level", "debug", "stats", aceFile(t))
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "QualityThreshold")
}

func TestInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := runArgs(t, ctx, noEnv, "stats", aceFile(t))
	assert.Equal(t, exitInterrupted, r.code)
}

func TestVersion(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "version")
	require.Equal(t, 0, r.code)
	assert.True(t, strings.HasPrefix(r.stdout, "acekit "))
}

func TestConsensusFASTA(t *testing.T) {
	r := runArgs(t, context.Background(), noEnv, "consensus", aceFile(t))
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, ">c1 len=8 reads=1\nACGTACGT\n>c2 len=5 reads=1\nACGTA\n", r.stdout)

	r = runArgs(t, context.Background(), noEnv, "consensus", "--gapped", aceFile(t), "c2")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, ">c2 len=6 reads=1\nAC-GTA\n", r.stdout)
}
