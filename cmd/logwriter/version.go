package main

import (
	"github.com/spf13/cobra"

	"github.com/Kargones/logwriter/internal/constants"
	"github.com/Kargones/logwriter/internal/pkg/output"
)

// versionInfo — данные команды version.
type versionInfo struct {
	App     string `json:"app"`
	Version string `json:"version"`
}

func (v versionInfo) TextLines() []string {
	return []string{v.App + " version " + v.Version}
}

func newVersionCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   constants.CmdVersion,
		Short: "Вывести версию logwriter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return global.writeResult(cmd, &output.Result{
				Status:  output.StatusSuccess,
				Command: constants.CmdVersion,
				Data:    versionInfo{App: constants.AppName, Version: constants.Version},
			})
		},
	}
}
