package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roboco-io/handoc/internal/config"
	"github.com/roboco-io/handoc/internal/handoc"
	"github.com/roboco-io/handoc/internal/ir"
	"github.com/roboco-io/handoc/internal/writer"
)

// resetFlags restores every package-level flag variable, since rootCmd is
// shared between tests.
func resetFlags() {
	configPath, logLevel, verbose = "", "", false
	convertOutput, convertTo, convertImagesDir = "", "", "./images"
	convertFrontMatter, convertExtractImgs, convertQuiet = false, false, false
	extractOutput, extractFormat, extractPrettyPrint = "", "plain", true
	infoJSON = false
	inspectPart, inspectDigest = "", false
	roundtripOutput = ""
	configForce = false
}

// execute runs the root command with an isolated config file.
func execute(t *testing.T, cfgFile string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFixture(t *testing.T, b *writer.Builder) string {
	t.Helper()
	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "doc.hwpx")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func textFixture(t *testing.T) string {
	return writeFixture(t, writer.NewBuilder(writer.DefaultBuilderOptions()).
		AddHeading(1, "제목").
		AddParagraph("본문", nil))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func tempConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	out, _, err := execute(t, tempConfig(t), "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "handoc 1.2.3\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "handoc" {
		t.Errorf("expected Use 'handoc', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	for _, flag := range []string{"config", "log-level", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent flag '%s' to exist", flag)
		}
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		use   string
		flags []string
	}{
		{"convert <file>", []string{"output", "to", "front-matter", "extract-images", "images-dir", "quiet"}},
		{"extract <file>", []string{"output", "format", "pretty"}},
		{"info <file>", []string{"json"}},
		{"inspect <file>", []string{"part", "digest"}},
		{"roundtrip <file.hwpx>", []string{"output"}},
		{"version", nil},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(strings.Fields(tt.use)[:1])
			if err != nil || cmd.Use != tt.use {
				t.Fatalf("command %q not found (got %v, %v)", tt.use, cmd, err)
			}
			if cmd.Short == "" {
				t.Error("expected Short description to be set")
			}
			for _, flag := range tt.flags {
				if cmd.Flags().Lookup(flag) == nil {
					t.Errorf("expected flag '%s' to exist", flag)
				}
			}
		})
	}
}

func TestTargetFormat(t *testing.T) {
	tests := []struct {
		to, output string
		want       string
		wantErr    bool
	}{
		{"", "", "markdown", false},
		{"", "out.md", "markdown", false},
		{"", "out.HWPX", "hwpx", false},
		{"md", "out.hwpx", "markdown", false},
		{"hwpx", "", "hwpx", false},
		{"pdf", "", "", true},
	}
	for _, tt := range tests {
		got, err := targetFormat(tt.to, tt.output)
		if (err != nil) != tt.wantErr {
			t.Errorf("targetFormat(%q, %q) error = %v", tt.to, tt.output, err)
			continue
		}
		if got != tt.want {
			t.Errorf("targetFormat(%q, %q) = %q, want %q", tt.to, tt.output, got, tt.want)
		}
	}
}

func TestOpenDocument_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := openDocument(filepath.Join(dir, "missing.hwpx")); err == nil || !strings.Contains(err.Error(), "찾을 수 없습니다") {
		t.Errorf("missing file error = %v", err)
	}

	txt := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(txt, []byte("plain text"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := openDocument(txt); err == nil || !strings.Contains(err.Error(), "지원하지 않는") {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestConvert_Markdown(t *testing.T) {
	out, _, err := execute(t, tempConfig(t), "convert", textFixture(t))
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}
	if diff := cmp.Diff("# 제목\n\n본문\n", out); diff != "" {
		t.Errorf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_ExtractImages(t *testing.T) {
	input := writeFixture(t, writer.NewBuilder(writer.DefaultBuilderOptions()).
		AddImage(pngBytes(t), "png", 0, 0))
	imagesDir := filepath.Join(t.TempDir(), "images")
	output := filepath.Join(t.TempDir(), "out.md")

	_, stderr, err := execute(t, tempConfig(t), "convert", input, "-o", output,
		"--extract-images", "--images-dir", imagesDir)
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}
	if !strings.Contains(stderr, "이미지 1개 저장") {
		t.Errorf("stderr = %q", stderr)
	}
	if _, err := os.Stat(filepath.Join(imagesDir, "image1.png")); err != nil {
		t.Errorf("image not extracted: %v", err)
	}
	md, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(md), filepath.ToSlash(imagesDir)+"/image1.png") {
		t.Errorf("markdown does not link the extracted image: %q", md)
	}
}

func TestConvert_ToHwpx(t *testing.T) {
	input := textFixture(t)
	output := filepath.Join(t.TempDir(), "copy.hwpx")

	if _, _, err := execute(t, tempConfig(t), "convert", input, "-o", output); err != nil {
		t.Fatalf("convert error = %v", err)
	}
	doc, err := handoc.OpenFile(output, handoc.Options{})
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if got := doc.ExtractText(); got != "제목\n본문" {
		t.Errorf("text = %q", got)
	}

	// 출력 경로가 입력과 같으면 거부한다
	if _, _, err := execute(t, tempConfig(t), "convert", input, "--to", "hwpx", "-o", input); err == nil {
		t.Error("expected error when overwriting the input")
	}
}

func TestExtract(t *testing.T) {
	input := textFixture(t)

	out, _, err := execute(t, tempConfig(t), "extract", input)
	if err != nil {
		t.Fatal(err)
	}
	if out != "제목\n본문\n" {
		t.Errorf("plain output = %q", out)
	}

	out, _, err = execute(t, tempConfig(t), "extract", input, "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var doc ir.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Content) != 2 || doc.Content[0].Paragraph.Style.HeadingLevel != 1 {
		t.Errorf("IR content = %+v", doc.Content)
	}

	if _, _, err := execute(t, tempConfig(t), "extract", input, "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormatAsText(t *testing.T) {
	doc := ir.NewDocument()
	doc.Metadata.Title = "보고서"
	doc.AddParagraph(ir.NewParagraph("본문"))
	list := ir.NewOrderedList()
	list.AddItem("하나")
	list.AddItem("둘")
	doc.AddList(list)
	doc.AddEquation("a over b")
	doc.AddNote("footnote", "각주")

	want := "제목: 보고서\n\n---\n\n본문\n\n1. 하나\n2. 둘\n\n[수식: a over b]\n\n[1] 각주\n"
	if diff := cmp.Diff(want, formatAsText(doc)); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestInfo_JSON(t *testing.T) {
	out, _, err := execute(t, tempConfig(t), "info", textFixture(t), "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got documentInfo
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Format != "hwpx" || got.Stats.Paragraphs != 2 || got.Stats.Words != 2 {
		t.Errorf("info = %+v", got)
	}
	if got.PageSize != (handoc.PageSize{Width: 210, Height: 297}) {
		t.Errorf("page size = %+v", got.PageSize)
	}
}

func TestInfo_Table(t *testing.T) {
	out, _, err := execute(t, tempConfig(t), "info", textFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"형식:", "hwpx", "210 x 297 mm", "문단:"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestInspect(t *testing.T) {
	input := textFixture(t)

	out, _, err := execute(t, tempConfig(t), "inspect", input, "--digest")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Contents/section0.xml") || !strings.Contains(out, "mimetype") {
		t.Errorf("part list = %q", out)
	}

	out, _, err = execute(t, tempConfig(t), "inspect", input, "--part", "mimetype")
	if err != nil {
		t.Fatal(err)
	}
	if out != "application/hwp+zip" {
		t.Errorf("mimetype part = %q", out)
	}

	if _, _, err := execute(t, tempConfig(t), "inspect", input, "--part", "nope.xml"); err == nil {
		t.Error("expected error for a missing part")
	}
}

func TestRoundtrip(t *testing.T) {
	input := writeFixture(t, writer.NewBuilder(writer.DefaultBuilderOptions()).
		AddParagraph("왕복", nil).
		AddImage(pngBytes(t), "png", 0, 0))
	output := filepath.Join(t.TempDir(), "copy.hwpx")

	out, _, err := execute(t, tempConfig(t), "roundtrip", input, "-o", output)
	if err != nil {
		t.Fatalf("roundtrip error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "텍스트 일치") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "BinData/image1.png") {
		t.Errorf("image part reported as changed:\n%s", out)
	}
}

func TestDiffParts(t *testing.T) {
	got := diffParts(
		map[string]string{"a": "1", "b": "2", "c": "3"},
		map[string]string{"a": "1", "b": "9", "d": "4"},
	)
	want := partChanges{Changed: []string{"b"}, Added: []string{"d"}, Removed: []string{"c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diff mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigCommands(t *testing.T) {
	cfgFile := tempConfig(t)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvMaxDepth, "")
	t.Setenv(config.EnvPreserve, "")

	if _, _, err := execute(t, cfgFile, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(cfgFile); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if _, _, err := execute(t, cfgFile, "config", "init"); err == nil {
		t.Error("expected error when config exists")
	}
	if _, _, err := execute(t, cfgFile, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	out, _, err := execute(t, cfgFile, "config", "set", "builder.font_face", "바탕")
	if err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if !strings.Contains(out, "builder.font_face = 바탕") {
		t.Errorf("set output = %q", out)
	}
	if _, _, err := execute(t, cfgFile, "config", "set", "format.language", "ko"); err == nil {
		t.Error("expected error for unknown key")
	}

	out, _, err = execute(t, cfgFile, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"font_face: 바탕", "HANDOC_LOG_LEVEL", "(미설정)"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out, _, err = execute(t, cfgFile, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != cfgFile {
		t.Errorf("path = %q, want %q", out, cfgFile)
	}
}

func TestLogLevelFlag(t *testing.T) {
	if _, _, err := execute(t, tempConfig(t), "--log-level", "loud", "version"); err == nil {
		t.Error("expected error for an invalid log level")
	}
	if _, _, err := execute(t, tempConfig(t), "--log-level", "debug", "version"); err != nil {
		t.Errorf("debug level error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("config level = %q", cfg.Log.Level)
	}
}
