package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kargones/logwriter/internal/constants"
	"github.com/Kargones/logwriter/internal/pkg/output"
	"github.com/Kargones/logwriter/pkg/textdecode"
)

// decodedFile — результат определения кодировки одного файла.
type decodedFile struct {
	Path     string `json:"path"`
	Encoding string `json:"encoding,omitempty"`
	Valid    bool   `json:"valid"`
	Text     string `json:"text,omitempty"`
}

// decodeReport выводится в текстовом виде как "<путь>\t<кодировка>",
// при --print следом идёт декодированный текст.
type decodeReport []decodedFile

func (r decodeReport) TextLines() []string {
	lines := make([]string, 0, len(r))
	for _, f := range r {
		if !f.Valid {
			lines = append(lines, f.Path+"\tundecodable")
			continue
		}
		lines = append(lines, f.Path+"\t"+f.Encoding)
		if f.Text != "" {
			lines = append(lines, f.Text)
		}
	}
	return lines
}

func newDecodeCmd(global *globalFlags) *cobra.Command {
	var printText bool

	cmd := &cobra.Command{
		Use:   constants.CmdDecode + " FILE...",
		Short: "Определить кодировку файлов",
		Long: `Для каждого файла выводит имя подошедшей кодировки.
Кандидаты перебираются в порядке: ` + fmt.Sprint(textdecode.Candidates()) + `.
Если хотя бы один файл не удалось декодировать, код завершения 2.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := make(decodeReport, 0, len(args))
			failed := 0
			for _, path := range args {
				raw, err := os.ReadFile(path) //nolint:gosec // путь задан пользователем
				if err != nil {
					return err
				}
				res := textdecode.Decode(raw)
				f := decodedFile{Path: path, Valid: res.Valid}
				if res.Valid {
					f.Encoding = res.Encoding
					if printText {
						f.Text = res.Text
					}
				} else {
					failed++
				}
				report = append(report, f)
			}

			if failed == 0 {
				return global.writeResult(cmd, &output.Result{
					Status:  output.StatusSuccess,
					Command: constants.CmdDecode,
					Data:    report,
				})
			}

			err := &exitError{
				code: constants.ExitUndecodable,
				err:  fmt.Errorf("не удалось декодировать файлов: %d", failed),
			}
			if werr := global.writeResult(cmd, &output.Result{
				Status:  output.StatusError,
				Command: constants.CmdDecode,
				Data:    report,
				Error:   output.NewErrorInfo(err),
			}); werr != nil {
				return werr
			}
			return &reportedError{err: err}
		},
	}
	cmd.Flags().BoolVar(&printText, "print", false, "вывести декодированный текст")
	return cmd
}
