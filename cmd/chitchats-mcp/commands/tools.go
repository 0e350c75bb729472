package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hishamalhadi/chitchats-mcp/internal/tools"
)

func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and invoke the shipping tools",
	}

	cmd.AddCommand(
		newToolsListCmd(),
		newToolsCallCmd(),
	)

	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all available tools",
		RunE:  runToolsList,
	}
}

func newToolsCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke one tool and print its output",
		Args:  cobra.ExactArgs(1),
		RunE:  runToolsCall,
	}

	cmd.Flags().String("args", "", "Tool arguments as a JSON object")
	cmd.Flags().Bool("plain", false, "Print raw text without markdown rendering")

	return cmd
}

func runToolsList(cmd *cobra.Command, args []string) error {
	reg, _, err := loadCatalog()
	if err != nil {
		return err
	}

	var (
		headerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#8E4EC6")). // Purple
				Padding(0, 1).
				MarginBottom(1)

		// Column Widths
		wName   = 28
		wAccess = 12
		wDesc   = 56

		colHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8E4EC6")).
				Bold(true).
				MarginRight(1)

		nameStyle = lipgloss.NewStyle().
				Width(wName).
				MarginRight(1)

		accessStyleBase = lipgloss.NewStyle().
				Width(wAccess).
				MarginRight(1)

		descStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Width(wDesc).
				MarginRight(1)

		readColor        = lipgloss.Color("#2E8B57") // SeaGreen
		mutateColor      = lipgloss.Color("#D7AF00") // Gold
		destructiveColor = lipgloss.Color("#CD5C5C") // IndianRed
	)

	fmt.Println(headerStyle.Render("Available Tools"))

	headers := lipgloss.JoinHorizontal(lipgloss.Top,
		colHeaderStyle.Width(wName).Render("NAME"),
		colHeaderStyle.Width(wAccess).Render("ACCESS"),
		colHeaderStyle.Width(wDesc).Render("DESCRIPTION"),
	)
	fmt.Printf("  %s\n", headers)

	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)
	separator := lipgloss.JoinHorizontal(lipgloss.Top,
		sepStyle.Render(strings.Repeat("─", wName)),
		sepStyle.Render(strings.Repeat("─", wAccess)),
		sepStyle.Render(strings.Repeat("─", wDesc)),
	)
	fmt.Printf("  %s\n", separator)

	for _, t := range reg.List() {
		aColor := mutateColor
		switch t.Access {
		case tools.ReadOnly:
			aColor = readColor
		case tools.Destructive:
			aColor = destructiveColor
		}

		row := lipgloss.JoinHorizontal(lipgloss.Top,
			nameStyle.Render(t.Name),
			accessStyleBase.Foreground(aColor).Render(string(t.Access)),
			descStyle.Render(truncate(t.Description, wDesc)),
		)
		fmt.Printf("  %s\n", row)
	}

	fmt.Println()

	return nil
}

func runToolsCall(cmd *cobra.Command, args []string) error {
	argsJSON, _ := cmd.Flags().GetString("args")
	plain, _ := cmd.Flags().GetBool("plain")

	params := map[string]any{}
	if strings.TrimSpace(argsJSON) != "" {
		if err := json.Unmarshal([]byte(argsJSON), &params); err != nil {
			return fmt.Errorf("invalid --args json: %w", err)
		}
	}

	reg, _, err := loadCatalog()
	if err != nil {
		return err
	}

	out := reg.Dispatch(cmd.Context(), args[0], params)
	text := strings.TrimRight(out.Text, "\n")
	if !plain && !out.IsError {
		if rendered, err := renderMarkdown(text); err == nil {
			text = strings.TrimRight(rendered, "\n")
		}
	}
	fmt.Println(text)

	if out.IsError {
		return fmt.Errorf("tool call failed")
	}
	return nil
}

func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
