package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kargones/logwriter/internal/config"
	"github.com/Kargones/logwriter/internal/constants"
	"github.com/Kargones/logwriter/internal/pkg/output"
)

// exitError несёт код завершения, отличный от ExitError.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// reportedError — ошибка, результат которой команда уже вывела сама.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// globalFlags — флаги, общие для всех команд.
type globalFlags struct {
	configPath   string
	outputFormat string
	start        time.Time
}

// writeResult выводит результат команды в формате --output.
func (g *globalFlags) writeResult(cmd *cobra.Command, result *output.Result) error {
	if result.Metadata == nil {
		result.Metadata = &output.Metadata{}
	}
	result.Metadata.APIVersion = output.APIVersion
	result.Metadata.DurationMs = time.Since(g.start).Milliseconds()
	return output.NewWriter(g.outputFormat).Write(cmd.OutOrStdout(), result)
}

// jsonOutput сообщает, что результаты выводятся в JSON.
func (g *globalFlags) jsonOutput() bool {
	return strings.EqualFold(g.outputFormat, output.FormatJSON)
}

// newRootCmd собирает дерево команд. Потоки вывода задаются через
// cmd.SetOut/SetErr, чтобы тесты могли их перехватить.
func newRootCmd() (*cobra.Command, *globalFlags) {
	flags := &globalFlags{start: time.Now()}

	root := &cobra.Command{
		Use:   constants.AppName,
		Short: "Запись журналов через настраиваемые логгеры",
		Long: `logwriter пишет сообщения через логгеры из YAML конфигурации
(консоль, файл с ротацией, syslog) и определяет кодировку текстовых файлов.

Переменные окружения:
` + config.Usage(),
		Version:       constants.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "logwriter version %s\n" .Version}}`)

	defaultFormat := os.Getenv(constants.EnvOutputFormat)
	if defaultFormat == "" {
		defaultFormat = output.FormatText
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "",
		"путь к YAML конфигурации (по умолчанию "+constants.EnvConfig+")")
	pf.StringVarP(&flags.outputFormat, "output", "o", defaultFormat,
		"формат результата: text или json (по умолчанию "+constants.EnvOutputFormat+")")

	root.AddCommand(newEmitCmd(flags))
	root.AddCommand(newDecodeCmd(flags))
	root.AddCommand(newVersionCmd(flags))
	return root, flags
}

// execute выполняет CLI и возвращает код завершения.
func execute(args []string) int {
	root, flags := newRootCmd()
	return run(root, flags, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(root *cobra.Command, flags *globalFlags, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if err == nil {
		return constants.ExitOK
	}

	var reported *reportedError
	switch {
	case errors.As(err, &reported):
	case flags.jsonOutput():
		_ = flags.writeResult(cmd, &output.Result{
			Status:  output.StatusError,
			Command: cmd.Name(),
			Error:   output.NewErrorInfo(err),
		})
	default:
		_, _ = fmt.Fprintln(stderr, "Ошибка:", err) //nolint:errcheck // error stream
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return constants.ExitError
}
