package application

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/novascore/credit-engine/internal/domain"
)

const quizSize = 5

// QuizOptions is the fixed Likert scale offered for every question.
var QuizOptions = []string{"Never", "Rarely", "Sometimes", "Often", "Always"}

var likertScore = map[string]int{"Never": 1, "Rarely": 2, "Sometimes": 3, "Often": 4, "Always": 5}

// QuizQuestionPool is the fixed 20-question pool the quiz draws from.
var QuizQuestionPool = []domain.QuizQuestion{
	{ID: 1, Text: "I set aside money before spending on discretionary items.", Category: "Discipline"},
	{ID: 2, Text: "I track my monthly expenses.", Category: "Discipline"},
	{ID: 3, Text: "I pay my credit card bill in full each month.", Category: "Discipline"},
	{ID: 4, Text: "I compare prices before making a large purchase.", Category: "Discipline"},
	{ID: 5, Text: "I maintain an emergency fund.", Category: "Planning"},
	{ID: 6, Text: "I review my financial goals periodically.", Category: "Planning"},
	{ID: 7, Text: "I plan major purchases in advance rather than impulsively.", Category: "Planning"},
	{ID: 8, Text: "I have a written or mental budget I follow.", Category: "Planning"},
	{ID: 9, Text: "I pay bills before their due date.", Category: "Reliability"},
	{ID: 10, Text: "I keep enough balance to avoid bounced payments.", Category: "Reliability"},
	{ID: 11, Text: "I honour repayment commitments to friends or family.", Category: "Reliability"},
	{ID: 12, Text: "I renew insurance and subscriptions on time.", Category: "Reliability"},
	{ID: 13, Text: "I research an investment before committing money to it.", Category: "RiskAwareness"},
	{ID: 14, Text: "I avoid borrowing for discretionary spending.", Category: "RiskAwareness"},
	{ID: 15, Text: "I read the terms before taking a loan or credit product.", Category: "RiskAwareness"},
	{ID: 16, Text: "I diversify savings across more than one instrument.", Category: "RiskAwareness"},
	{ID: 17, Text: "I check my account statements for errors.", Category: "Diligence"},
	{ID: 18, Text: "I update my contact and KYC details when they change.", Category: "Diligence"},
	{ID: 19, Text: "I read notifications from my bank or lender promptly.", Category: "Diligence"},
	{ID: 20, Text: "I keep receipts or records for significant transactions.", Category: "Diligence"},
}

// QuizQuestionView is what behaviour.questions returns to the caller.
type QuizQuestionView struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// SelectQuizQuestions performs a Fisher-Yates shuffle of the pool and returns
// the first quizSize questions.
func SelectQuizQuestions() ([]QuizQuestionView, []int, error) {
	shuffled := make([]domain.QuizQuestion, len(QuizQuestionPool))
	copy(shuffled, QuizQuestionPool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j, err := cryptoRandInt(i + 1)
		if err != nil {
			return nil, nil, err
		}
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	selected := shuffled[:quizSize]
	views := make([]QuizQuestionView, 0, quizSize)
	ids := make([]int, 0, quizSize)
	for _, q := range selected {
		views = append(views, QuizQuestionView{ID: q.ID, Text: q.Text, Options: QuizOptions})
		ids = append(ids, q.ID)
	}
	return views, ids, nil
}

func cryptoRandInt(n int) (int, error) {
	max := big.NewInt(int64(n))
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// ScoredQuiz is the output of ScoreQuiz.
type ScoredQuiz struct {
	TotalScore        int                      `json:"totalScore"`
	BehaviourScore    float64                  `json:"behaviourScore"`
	CategoryBreakdown map[string]CategoryScore `json:"categoryBreakdown"`
	Persona           string                   `json:"persona"`
	Feedback          string                   `json:"feedback"`
}

// CategoryScore is one category's rollup within the scored quiz.
type CategoryScore struct {
	Score      int     `json:"score"`
	MaxScore   int     `json:"maxScore"`
	Percentage float64 `json:"percentage"`
}

// ScoreQuiz validates and scores a set of responses against the offered pool.
func ScoreQuiz(pool []domain.QuizQuestion, offeredIDs []int, responses []domain.QuizResponse) (ScoredQuiz, error) {
	if len(responses) != quizSize {
		return ScoredQuiz{}, fmt.Errorf("%w: exactly %d responses are required", domain.ErrInvalidInput, quizSize)
	}

	offered := make(map[int]bool, len(offeredIDs))
	for _, id := range offeredIDs {
		offered[id] = true
	}
	byID := make(map[int]domain.QuizQuestion, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}

	seen := make(map[int]bool, len(responses))
	total := 0
	categoryTotals := make(map[string]int)
	categoryMax := make(map[string]int)

	for _, r := range responses {
		if seen[r.ID] {
			return ScoredQuiz{}, fmt.Errorf("%w: duplicate response id %d", domain.ErrInvalidInput, r.ID)
		}
		seen[r.ID] = true
		if !offered[r.ID] {
			return ScoredQuiz{}, fmt.Errorf("%w: response id %d was not offered", domain.ErrInvalidInput, r.ID)
		}
		score, ok := likertScore[r.Choice]
		if !ok {
			return ScoredQuiz{}, fmt.Errorf("%w: invalid choice %q", domain.ErrInvalidInput, r.Choice)
		}
		total += score
		category := byID[r.ID].Category
		categoryTotals[category] += score
		categoryMax[category] += 5
	}

	breakdown := make(map[string]CategoryScore, len(categoryTotals))
	for category, score := range categoryTotals {
		max := categoryMax[category]
		pct := 0.0
		if max > 0 {
			pct = round4(float64(score) / float64(max) * 100)
		}
		breakdown[category] = CategoryScore{Score: score, MaxScore: max, Percentage: pct}
	}

	behaviourScore := round4(float64(total) / 25)
	persona, feedback := personaBand(behaviourScore * 100)

	return ScoredQuiz{
		TotalScore:        total,
		BehaviourScore:    behaviourScore,
		CategoryBreakdown: breakdown,
		Persona:           persona,
		Feedback:          feedback,
	}, nil
}

func personaBand(percentage float64) (persona, feedback string) {
	switch {
	case percentage > 80:
		return "Prudent Strategist", "Your habits show strong financial discipline and planning; keep leaning on your emergency fund and diversified savings."
	case percentage > 60:
		return "Reliable Operator", "You manage obligations dependably; tightening how far ahead you plan could raise your resilience further."
	case percentage > 40:
		return "Emerging Professional", "Your habits are developing; building a consistent budget and emergency fund would meaningfully help."
	default:
		return "High-Touch Applicant", "Your responses suggest financial habits that need closer support; a structured budget and repayment plan are recommended."
	}
}
