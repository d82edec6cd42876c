package game

import (
	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/color"
)

// DefaultGuess is the picker's starting color: hue 0, half saturation, half brightness.
var DefaultGuess = color.HSB{H: 0, S: 0.5, B: 0.5}.RGB()

// Question is one trial: a named target, an optional personal reference and
// the player's guess. unanswered → answered is its only transition.
type Question struct {
	Name     string
	Answer   color.RGB
	Personal *color.RGB
	Notes    string
	Guess    color.RGB
	Answered bool
	Scores   Scores
}

func newQuestion(e catalog.Entry, policy color.Policy) *Question {
	q := &Question{
		Name:   e.Name,
		Answer: e.Answer,
		Notes:  e.Notes,
		Guess:  DefaultGuess,
	}
	if e.Personal != nil {
		p := *e.Personal
		q.Personal = &p
		s := color.Score(policy, p, e.Answer)
		q.Scores.PersonalToReference = &s
	}
	return q
}

// SetGuess replaces the guess. Out-of-range colors and answered questions are rejected.
func (q *Question) SetGuess(c color.RGB) error {
	if q.Answered {
		return ErrQuestionAnswered
	}
	if err := c.Validate(); err != nil {
		return err
	}
	q.Guess = c
	return nil
}

// Commit freezes the guess and scores it. It reports whether this call did
// the transition; committing an answered question returns the stored scores.
func (q *Question) Commit(policy color.Policy) (Scores, bool) {
	if q.Answered {
		return q.Scores, false
	}
	q.Scores.ToReference = color.Score(policy, q.Guess, q.Answer)
	if q.Personal != nil {
		s := color.Score(policy, q.Guess, *q.Personal)
		q.Scores.ToPersonal = &s
	}
	q.Answered = true
	return q.Scores, true
}

// Primary is the headline score: against the personal pick in plus mode
// (when the question has one), otherwise against the canonical answer.
func (q *Question) Primary(plus bool) float64 {
	if plus && q.Scores.ToPersonal != nil {
		return *q.Scores.ToPersonal
	}
	return q.Scores.ToReference
}

func (q *Question) view(i int) QuestionView {
	v := QuestionView{Index: i, Name: q.Name, Guess: q.Guess, Answered: q.Answered}
	if q.Answered {
		ans := q.Answer
		v.Answer = &ans
		if q.Personal != nil {
			p := *q.Personal
			v.Personal = &p
		}
		v.Notes = q.Notes
		sc := q.Scores
		v.Scores = &sc
	}
	return v
}
