package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var askJSON bool

// stdinIsTerminal reports whether stdin is interactive. Tests replace it.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	answerStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question about the resume",
	Long: `Builds or loads the vector index and answers a single question.

With no argument the question is read from piped stdin:
  echo "Which languages does the candidate know?" | resume-assistant ask`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, `output {"result": ...} as JSON`)
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question, err := readQuestion(cmd, args)
	if err != nil {
		return err
	}

	rt, _, err := startup(cmd, true, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	answers, err := rt.Answerer()
	if err != nil {
		return err
	}

	answer, err := answers.Answer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(questionStyle.Render(question))
	cmd.Println(answerStyle.Render(answer.Result))
	return nil
}

// readQuestion takes the question from args, or from stdin when it is piped.
func readQuestion(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		if q := strings.TrimSpace(args[0]); q != "" {
			return q, nil
		}
		return "", errors.New("question must not be empty")
	}

	if stdinIsTerminal() {
		return "", errors.New("a question is required (argument or piped stdin)")
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	q := strings.TrimSpace(string(data))
	if q == "" {
		return "", errors.New("no question on stdin")
	}
	return q, nil
}
