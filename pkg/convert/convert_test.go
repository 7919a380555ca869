package convert_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/esmshift/internal/config"
	"github.com/Sumatoshi-tech/esmshift/pkg/convert"
	"github.com/Sumatoshi-tech/esmshift/pkg/diag"
	"github.com/Sumatoshi-tech/esmshift/pkg/edgecase"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func writeSource(t *testing.T, dir, rel, text string) string {
	t.Helper()

	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	return path
}

func TestRun_ClassicFileConversion(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	out := filepath.Join(tmp, "out")

	writeSource(t, src, "Foo.js", `var Global = Global || {};

Global.Foo = function () {
	this.size = 1;
};

Global.Foo.prototype.bar = function () {
	return this.size;
};
`)

	cfg := &config.Config{Inputs: []string{src}, Output: out, Global: "Global"}
	require.NoError(t, cfg.Validate())

	result, err := convert.New(cfg, quietLogger(), convert.Options{}).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, result.Converted)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "classic", result.Files[0].Dialect)
	assert.Equal(t, []string{"Foo"}, result.Files[0].Exports)

	data, err := os.ReadFile(filepath.Join(out, "Foo.js"))
	require.NoError(t, err)

	final := string(data)
	assert.Contains(t, final, "var Foo = function () {")
	assert.Contains(t, final, "Foo.prototype.bar = function () {")
	assert.NotContains(t, final, "Global.")
	assert.Contains(t, final, "export { Foo };\n")
}

func TestRun_CrossFileImport(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	out := filepath.Join(tmp, "out")

	writeSource(t, src, "parts/Leg.js", `Global.Leg = function () {};
`)
	writeSource(t, src, "bots/Robot.js", `Global.Robot = function () {
	this.leg = new Global.Leg();
};
`)

	cfg := &config.Config{Inputs: []string{src}, Output: out, Global: "Global"}

	result, err := convert.New(cfg, quietLogger(), convert.Options{}).Run()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Converted)

	data, err := os.ReadFile(filepath.Join(out, "bots", "Robot.js"))
	require.NoError(t, err)

	final := string(data)
	assert.Contains(t, final, "import { Leg } from '../parts/Leg';\n")
	assert.Contains(t, final, "this.leg = new Leg();")
	assert.Contains(t, final, "export { Robot };\n")
}

func TestRun_WrapperUnwrapped(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	out := filepath.Join(tmp, "out")

	writeSource(t, src, "Wrapped.js", `(function (ns) {
ns.unused = 1;
Global.Wrapped = function () {};
})(Global);
`)

	cfg := &config.Config{Inputs: []string{src}, Output: out, Global: "Global"}

	_, err := convert.New(cfg, quietLogger(), convert.Options{}).Run()
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "Wrapped.js"))
	require.NoError(t, err)

	final := string(data)
	assert.NotContains(t, final, "(function")
	assert.NotContains(t, final, "})(Global)")
	assert.Contains(t, final, "var Wrapped = function () {};")
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	out := filepath.Join(tmp, "out")

	writeSource(t, src, "Foo.js", `Global.Foo = function () {};
`)

	cfg := &config.Config{Inputs: []string{src}, Output: out, Global: "Global"}

	result, err := convert.New(cfg, quietLogger(), convert.Options{DryRun: true}).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Converted)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_DuplicateBaseNameSkipsLaterFile(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	out := filepath.Join(tmp, "out")

	writeSource(t, src, "a/Util.js", `Global.Util = function () {};
`)
	writeSource(t, src, "b/Util.js", `Global.Util = function () {};
`)

	cfg := &config.Config{Inputs: []string{src}, Output: out, Global: "Global"}
	pipeline := convert.New(cfg, quietLogger(), convert.Options{})

	result, err := pipeline.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, pipeline.Sink().Count(diag.CategoryDuplicateBase))

	_, statErr := os.Stat(filepath.Join(out, "b", "Util.js"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_NonSourceFileCopiedWithBanner(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	out := filepath.Join(tmp, "out")

	writeSource(t, src, "notes.txt", "release checklist, plain prose only\n")

	cfg := &config.Config{
		Inputs: []string{src},
		Output: out,
		Global: "Global",
		Banner: "// generated\n",
	}

	result, err := convert.New(cfg, quietLogger(), convert.Options{}).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Copied)

	data, err := os.ReadFile(filepath.Join(out, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "// generated\nrelease checklist, plain prose only\n", string(data))
}

func TestRun_EdgeCaseOutputOverride(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	out := filepath.Join(tmp, "out")

	writeSource(t, src, "deep/nested/Foo.js", `Global.Foo = function () {};
`)

	cfg := &config.Config{
		Inputs: []string{src},
		Output: out,
		Global: "Global",
		EdgeCases: edgecase.Set{
			"Foo": {OutputOverride: "vendor/Foo.js"},
		},
	}

	_, err := convert.New(cfg, quietLogger(), convert.Options{}).Run()
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(out, "vendor", "Foo.js"))
	assert.NoError(t, statErr)
}

func TestRun_OutputOverrideRelocatesNonSourceFile(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	out := filepath.Join(tmp, "out")

	writeSource(t, src, "notes.txt", "release checklist, plain prose only\n")

	cfg := &config.Config{
		Inputs: []string{src},
		Output: out,
		Global: "Global",
		EdgeCases: edgecase.Set{
			"notes": {OutputOverride: "docs/notes.txt"},
		},
	}

	result, err := convert.New(cfg, quietLogger(), convert.Options{}).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Copied)

	_, statErr := os.Stat(filepath.Join(out, "docs", "notes.txt"))
	assert.NoError(t, statErr)

	_, statErr = os.Stat(filepath.Join(out, "notes.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_PreviewReceivesOriginalAndFinal(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")

	writeSource(t, src, "Foo.js", `Global.Foo = function () {};
`)

	var previewed int

	opts := convert.Options{
		DryRun: true,
		Preview: func(path, original, final string) {
			previewed++

			assert.Contains(t, original, "Global.Foo")
			assert.Contains(t, final, "var Foo =")
		},
	}

	cfg := &config.Config{Inputs: []string{src}, Output: filepath.Join(tmp, "out"), Global: "Global"}

	_, err := convert.New(cfg, quietLogger(), opts).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, previewed)
}

func TestStart_ResolvedFuture(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")

	writeSource(t, src, "Foo.js", `Global.Foo = function () {};
`)

	cfg := &config.Config{Inputs: []string{src}, Output: filepath.Join(tmp, "out"), Global: "Global"}

	future := convert.New(cfg, quietLogger(), convert.Options{}).Start()

	require.NoError(t, future.Wait())

	result, err := future.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Converted)
}

func TestRunWithCallback_ReportsTerminalError(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Inputs: []string{filepath.Join(t.TempDir(), "absent")},
		Output: "out",
		Global: "Global",
	}

	var got error

	convert.New(cfg, quietLogger(), convert.Options{}).RunWithCallback(func(err error) {
		got = err
	})

	assert.Error(t, got)
}

func TestRun_MissingInputIsFatal(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Inputs: []string{filepath.Join(t.TempDir(), "absent")},
		Output: "out",
		Global: "Global",
	}

	_, err := convert.New(cfg, quietLogger(), convert.Options{}).Run()

	assert.Error(t, err)
}
