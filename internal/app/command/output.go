package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	outputFlag = "output"
)

func AddOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(outputFlag, "o", "", "write the result to this path")
}

func GetOutputPath(cmd *cobra.Command) (string, error) {
	output, err := cmd.Flags().GetString(outputFlag)
	if err != nil {
		return "", fmt.Errorf("get output flag: %w", err)
	}
	return output, nil
}
