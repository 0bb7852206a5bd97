package prompt

import (
	"fmt"
	"strings"

	"github.com/lorenzotomasdiez/crossfire/internal/script"
)

// OpeningFiller stands in for the transcript before anyone has spoken.
const OpeningFiller = "(this is the opening of the debate)"

// Request carries everything needed to frame one turn.
type Request struct {
	Topic      string
	Transcript string
	Side       script.Side
	Phase      script.Phase
	TurnType   script.TurnType
}

var tasks = map[script.TurnType]string{
	script.TurnOpening: "Your task is to deliver the opening statement. State your core argument clearly " +
		"and lay out the framework you will use to support your position.",
	script.TurnQuestion: "Your task is to ask one sharp, probing question based on your opponent's previous " +
		"statement. Aim it at a logical gap or weakness in their case. Do not state your own position; " +
		"ask exactly one question.",
	script.TurnAnswer: "Your task is to answer the question your opponent just asked, directly and concisely. " +
		"Address that question first. Afterwards you may briefly restate your position, but the answer " +
		"must stay at the center. Do not ask a question back.",
	script.TurnFreeDebate: "This is the free debate. Your task is to rebut your opponent's latest point quickly " +
		"and directly, or to introduce one new, persuasive point. Keep it short and forceful.",
	script.TurnClosing: "Your task is to deliver the closing statement. Summarize your side's core arguments, " +
		"explain why your position is the stronger one, and name a specific flaw in your opponent's case. " +
		"This is your last chance to persuade the audience.",
}

// Task returns the instruction paragraph for a turn type.
func Task(tt script.TurnType) string {
	return tasks[tt]
}

func role(side script.Side, topic string) string {
	return fmt.Sprintf("You are a world-class debater arguing the **%s** side of the motion \"%s\". "+
		"You take the motion apart, examine its key terms from their explicit, implicit and related angles, "+
		"and use that analysis to build a thorough, well-supported case. "+
		"Your language must be clear and concise, easy for a middle-school student to follow.",
		side, topic)
}

const directive = "Respond according to your role and the debate record so far. " +
	"Do not repeat your role, the topic or the task instructions, and do not add conversational filler. " +
	"Give only your argument, question or answer, clearly and concisely."

// Build renders the full instruction for one turn. Sections appear in a fixed
// order: role, task, phase, transcript, directive.
func Build(r Request) string {
	transcript := r.Transcript
	if strings.TrimSpace(transcript) == "" {
		transcript = OpeningFiller
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Your role:** %s\n\n", role(r.Side, r.Topic))
	fmt.Fprintf(&sb, "**Your task:** %s\n\n", Task(r.TurnType))
	fmt.Fprintf(&sb, "**Current phase:** %s\n\n", r.Phase.Label())
	sb.WriteString("**Debate record so far:**\n---\n")
	sb.WriteString(transcript)
	sb.WriteString("\n---\n\n")
	fmt.Fprintf(&sb, "**Your turn:** %s\n", directive)
	return sb.String()
}
