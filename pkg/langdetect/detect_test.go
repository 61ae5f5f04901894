package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gohyperdown/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "shebang bash", content: "#!/bin/bash\necho hello", want: "bash"},
		{name: "shebang sh", content: "#!/bin/sh\necho hello", want: "bash"},
		{name: "shebang python", content: "#!/usr/bin/env python3\nprint('hello')", want: "python"},
		{name: "shebang wins over patterns", content: "#!/bin/bash\ndef foo():\n    pass", want: "bash"},
		{name: "go", content: "package main\n\nfunc main() {}", want: "go"},
		{name: "php", content: "<?php\necho 'hi';", want: "php"},
		{name: "diff", content: "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b", want: "diff"},
		{name: "python", content: "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", want: "python"},
		{name: "javascript", content: "const x = () => 42;\nconsole.log(x());", want: "javascript"},
		{name: "json", content: `{"key": "value", "number": 123}`, want: "json"},
		{name: "yaml", content: "key: value\nother: 123\nlist:\n  - item1\n  - item2", want: "yaml"},
		{name: "rust", content: "fn main() {\n    println!(\"Hello\");\n}", want: "rust"},
		{name: "sql", content: "SELECT * FROM users WHERE id = 1;", want: "sql"},
		{name: "html", content: "<!DOCTYPE html>\n<html>\n<body></body>\n</html>", want: "html"},
		{name: "dockerfile", content: "FROM golang:1.25\nWORKDIR /app\nCOPY . .\nRUN go build", want: "dockerfile"},
		{name: "plain text", content: "just some text without any code patterns", want: langdetect.Unknown},
		{name: "empty", content: "", want: langdetect.Unknown},
		{name: "blank", content: " \n\t\n", want: langdetect.Unknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, langdetect.Detect([]byte(tt.content)))
		})
	}
}
