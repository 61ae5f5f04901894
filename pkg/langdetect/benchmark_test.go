package langdetect

import (
	"testing"
)

func BenchmarkDetect(b *testing.B) {
	inputs := map[string][]byte{
		"go":     []byte("package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}"),
		"python": []byte("def hello():\n    print(\"hi\")\n\nif __name__ == \"__main__\":\n    hello()"),
		"json":   []byte("{\n  \"name\": \"test\",\n  \"version\": \"1.0.0\"\n}"),
		"prose":  []byte("hello there, this is not code"),
		"empty":  nil,
	}

	for name, code := range inputs {
		code := code
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Detect(code)
			}
		})
	}
}
