// Package agent provides an interactive AI analyst that answers questions
// about a computed disposal run: why a parcel was selected, how the discount
// applied, what the comparison numbers mean.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Analyst is a chat session grounded in the reports of one disposal run. The
// reports are injected as system instruction, so the model answers from the
// actual numbers instead of inventing them.
type Analyst struct {
	w       io.Writer
	r       *bufio.Reader
	reports []string
	chat    *genai.Chat
}

// New creates an Analyst over the given markdown reports.
//
// It takes an io.Writer for the analyst's output (e.g., os.Stdout), an
// io.Reader for user input (e.g., os.Stdin), and the rendered reports the
// session is about.
func New(w io.Writer, r io.Reader, reports ...string) *Analyst {
	return &Analyst{
		w:       w,
		r:       bufio.NewReader(r),
		reports: reports,
	}
}

// Start creates the underlying chat session.
func (a *Analyst) Start(ctx context.Context, client *genai.Client) error {
	instruction := `
	You are a capital gains tax analyst for Australian investors.

	The reports below are the authoritative outcome of the user's disposal
	run: parcel selections, holding periods, the 50% discount on long-term
	gains, currency conversions and the strategy comparison. Answer strictly
	from these numbers; when asked about a figure that is not in the reports,
	say so instead of estimating.

	You are not a tax adviser: remind the user to verify outcomes with a
	registered agent when they ask for advice rather than explanation.
	` + strings.Join(a.reports, "\n\n---\n\n")

	chat, err := client.Chats.Create(ctx, model, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
	}, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

// Ask sends one question and returns the textual answer.
func (a *Analyst) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the analyst")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "assist> "

// Run starts the interactive REPL session for the analyst. Initial prompts
// are consumed before reading from the user, so a question can be passed on
// the command line.
func (a *Analyst) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Ask about this disposal run. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
