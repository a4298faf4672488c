// Package main содержит точку входа CLI logwriter.
//
// CLI пишет сообщения через логгеры, описанные в YAML конфигурации,
// и определяет кодировку текстовых файлов.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:]))
}
