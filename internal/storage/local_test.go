package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"regexp"
	"testing"
)

func Test_Allowed(t *testing.T) {
	cases := []struct {
		filename string
		want     bool
	}{
		{"brief.pdf", true},
		{"BRIEF.PDF", true},
		{"scan.jpeg", true},
		{"photo.png", true},
		{"contract.docx", true},
		{"payload.exe", false},
		{"script.sh", false},
		{"archive.pdf.zip", false},
		{"noextension", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.filename); got != tc.want {
			t.Errorf("Allowed(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

// Rejection paths run before the file is ever opened, so a bare header is
// enough to exercise them.
func Test_Save_Rejections(t *testing.T) {
	l := NewLocal(t.TempDir())

	cases := []struct {
		name string
		fh   *multipart.FileHeader
	}{
		{"empty file", &multipart.FileHeader{Filename: "brief.pdf", Size: 0}},
		{"oversized file", &multipart.FileHeader{Filename: "brief.pdf", Size: MaxFileSize + 1}},
		{"disallowed extension", &multipart.FileHeader{Filename: "payload.exe", Size: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := l.Save(tc.fh); err == nil {
				t.Fatal("want error, got nil")
			}
		})
	}
}

// formFile builds a real multipart header carrying the given content.
func formFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(int64(len(content)) + 1024)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func Test_Save_WritesSanitizedUniqueName(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir)

	content := []byte("%PDF-1.4 stub")
	name, path, err := l.Save(formFile(t, "My Report.pdf", content))
	if err != nil {
		t.Fatal(err)
	}

	if !regexp.MustCompile(`^My_Report_[0-9a-f]{8}\.pdf$`).MatchString(name) {
		t.Fatalf("stored name %q does not match sanitized pattern", name)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("stored content mismatch: %q", got)
	}

	// Same original name twice must not collide.
	name2, _, err := l.Save(formFile(t, "My Report.pdf", content))
	if err != nil {
		t.Fatal(err)
	}
	if name2 == name {
		t.Fatalf("second save reused name %q", name)
	}
}

func Test_Save_TraversalNameIsFlattened(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir)

	name, path, err := l.Save(formFile(t, "../../etc/passwd.pdf", []byte("x")))
	if err != nil {
		t.Fatal(err)
	}
	if matched, _ := regexp.MatchString(`^passwd_[0-9a-f]{8}\.pdf$`, name); !matched {
		t.Fatalf("stored name %q kept path components", name)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func Test_Remove(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir)

	_, path, err := l.Save(formFile(t, "note.pdf", []byte("x")))
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still present after Remove: %v", err)
	}

	// Removing again is not an error.
	if err := l.Remove(path); err != nil {
		t.Fatal(err)
	}
}
