package main

import (
	"bufio"
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/Kargones/logwriter/internal/config"
	"github.com/Kargones/logwriter/internal/constants"
	"github.com/Kargones/logwriter/internal/di"
	"github.com/Kargones/logwriter/internal/pkg/output"
	"github.com/Kargones/logwriter/internal/pkg/tracing"
	"github.com/Kargones/logwriter/pkg/logwriter"
)

// emitSummary — данные команды emit. В текстовом виде ничего не выводится:
// сами записи уже ушли в приёмники логгера.
type emitSummary struct {
	Logger   string `json:"logger"`
	Level    string `json:"level"`
	Messages int    `json:"messages"`
}

func (emitSummary) TextLines() []string { return nil }

type emitFlags struct {
	level   string
	name    string
	traceID string
	anchor  bool
	profile bool
	watch   bool
}

func newEmitCmd(global *globalFlags) *cobra.Command {
	flags := &emitFlags{}

	cmd := &cobra.Command{
		Use:   constants.CmdEmit + " [MESSAGE...]",
		Short: "Записать сообщения через настроенный логгер",
		Long: `Каждый аргумент записывается отдельным сообщением. Без аргументов
сообщения читаются построчно из stdin до EOF или сигнала.

При включённом watch уровень логгеров перечитывается из файла конфигурации
во время чтения stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runEmit(ctx, cmd, global, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.level, "level", "l", logwriter.LevelInfo.String(), "уровень сообщений (имя или число)")
	f.StringVarP(&flags.name, "name", "n", "", "имя логгера (по умолчанию первый из конфигурации)")
	f.StringVar(&flags.traceID, "trace-id", "", "trace ID в hex (по умолчанию генерируется)")
	f.BoolVar(&flags.anchor, "anchor", false, "обрамить запись отладочными anchor begin/end")
	f.BoolVar(&flags.profile, "profile", false, "записать затраченное время (и CPU профиль при "+logwriter.EnvCPUProfile+")")
	f.BoolVarP(&flags.watch, "watch", "w", false, "следить за уровнем в файле конфигурации")
	return cmd
}

func runEmit(ctx context.Context, cmd *cobra.Command, global *globalFlags, flags *emitFlags, args []string) error {
	level, err := logwriter.ParseLevel(flags.level)
	if err != nil {
		return err
	}

	cfg, err := config.Load(global.configPath)
	if err != nil {
		return err
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Close(shutdownCtx)
	}()

	lw := app.Primary()
	if flags.name != "" {
		lw = app.Registry.Lookup(flags.name)
	}

	traceID := flags.traceID
	if traceID == "" {
		traceID = app.TraceID
	}
	summary := emitSummary{Logger: lw.Name(), Level: level.String()}
	ctx = tracing.WithTraceID(ctx, traceID)
	ctx, span := tracing.StartWrite(ctx, otel.Tracer(tracing.TracerName), constants.CmdEmit, lw, level)
	defer func() { tracing.EndWrite(span, lw, summary.Messages) }()

	if (flags.watch || cfg.Watch) && cfg.Path != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			onError := func(err error) { lw.Warn("ошибка перечитывания конфигурации", "error", err) }
			if err := logwriter.WatchConfig(watchCtx, cfg.Path, lw, onError); err != nil {
				onError(err)
			}
		}()
	}

	write := func() {
		start := time.Now()
		if flags.anchor {
			lw.DebugAnchorBegin(logwriter.FuncName(constants.CmdEmit), len(args))
		}
		n := emitMessages(ctx, cmd, lw, level, args)
		summary.Messages = n
		if flags.anchor {
			lw.DebugAnchorEnd(n, logwriter.FuncName(constants.CmdEmit), len(args),
				logwriter.Elapsed(time.Since(start)))
		}
	}

	if flags.profile {
		lw.Profile(constants.CmdEmit, write)
	} else {
		write()
	}

	return global.writeResult(cmd, &output.Result{
		Status:   output.StatusSuccess,
		Command:  constants.CmdEmit,
		Data:     summary,
		Metadata: &output.Metadata{TraceID: traceID},
	})
}

// emitMessages пишет args или, если их нет, строки stdin.
// Возвращает число записанных сообщений.
func emitMessages(ctx context.Context, cmd *cobra.Command, lw *logwriter.Logger, level logwriter.Level, args []string) int {
	if len(args) > 0 {
		for _, msg := range args {
			lw.LogContext(ctx, level, msg)
		}
		return len(args)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "stdin:", err)
		}
	}()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return n
		case line, ok := <-lines:
			if !ok {
				return n
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			lw.LogContext(ctx, level, line)
			n++
		}
	}
}
