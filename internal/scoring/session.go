package scoring

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/caseprep/internal/logging"
	"github.com/abhisek/caseprep/internal/progression"
	"github.com/abhisek/caseprep/internal/quizgen"
)

// Session evaluates one completed quiz. It is not safe for concurrent use:
// callers serialize access per session or use one session per user.
type Session struct {
	ID      string
	mode    Mode
	partial PartialCreditConfig

	progress *progression.Progress

	quiz          *quizgen.Quiz
	answers       map[int]Answer
	results       []QuestionResult
	startedAt     time.Time
	questionStart map[int]time.Time

	simCache map[pairKey]float64

	sessionXP           int
	achievementsAwarded []string

	now func() time.Time
}

// SessionOption configures a Session at construction.
type SessionOption func(*Session)

// WithProgress attaches a progression aggregate; score calculation will then
// drive XP, streak, proficiency, and achievement updates.
func WithProgress(p *progression.Progress) SessionOption {
	return func(s *Session) { s.progress = p }
}

// WithPartialCredit overrides the partial-credit weights.
func WithPartialCredit(cfg PartialCreditConfig) SessionOption {
	return func(s *Session) { s.partial = cfg }
}

// WithSessionClock overrides the time source. Used in tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a scoring session with the given mode.
func NewSession(mode Mode, opts ...SessionOption) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		mode:    mode,
		partial: DefaultPartialCreditConfig(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the scoring policy fixed at construction.
func (s *Session) Mode() Mode { return s.mode }

// Start begins scoring the given quiz. The quiz is validated strictly before
// any answers are accepted; a structurally invalid quiz fails with
// *quizgen.ConfigError.
func (s *Session) Start(quiz *quizgen.Quiz) error {
	if err := validateQuiz(quiz); err != nil {
		return err
	}

	s.quiz = quiz
	s.answers = make(map[int]Answer)
	s.results = nil
	s.startedAt = s.now()
	s.questionStart = make(map[int]time.Time)
	s.simCache = make(map[pairKey]float64)
	s.sessionXP = 0
	s.achievementsAwarded = nil

	logging.Infof("started scoring session %s with %d questions", s.ID, len(quiz.Questions))
	return nil
}

func validateQuiz(quiz *quizgen.Quiz) error {
	if quiz == nil {
		return &quizgen.ConfigError{Reason: "quiz is nil"}
	}
	if len(quiz.Questions) == 0 {
		return &quizgen.ConfigError{Reason: "quiz must contain at least one question"}
	}
	for i, q := range quiz.Questions {
		if q.Number == 0 {
			return &quizgen.ConfigError{Reason: fmt.Sprintf("question %d missing question number", i+1)}
		}
		if q.Text == "" {
			return &quizgen.ConfigError{Reason: fmt.Sprintf("question %d missing question text", q.Number)}
		}
		if q.Type == quizgen.TypeMultiCaseMatching {
			if len(q.CorrectMapping) == 0 || len(q.DiagnosisOptions) == 0 {
				return &quizgen.ConfigError{Reason: fmt.Sprintf("question %d missing matching data", q.Number)}
			}
			continue
		}
		if len(q.Options) == 0 {
			return &quizgen.ConfigError{Reason: fmt.Sprintf("question %d has no options", q.Number)}
		}
		if q.CorrectAnswer == "" {
			return &quizgen.ConfigError{Reason: fmt.Sprintf("question %d missing correct answer", q.Number)}
		}
	}
	return nil
}

// StartQuestionTimer starts the elapsed-time clock for a question; a later
// RecordAnswer without an explicit time uses it.
func (s *Session) StartQuestionTimer(number int) error {
	if s.quiz == nil {
		return ErrSessionNotStarted
	}
	if number < 1 || number > len(s.quiz.Questions) {
		return fmt.Errorf("%w: %d", ErrInvalidQuestionNumber, number)
	}
	s.questionStart[number] = s.now()
	logging.Debugf("started timer for question %d", number)
	return nil
}

// RecordAnswer stores a standard answer. A negative elapsed falls back to the
// question timer, or 0 with a warning when no timer was started — a
// recoverable inconsistency, not an error.
func (s *Session) RecordAnswer(number int, answer string, elapsed float64) error {
	return s.record(number, Answer{Value: answer, TimeSpent: elapsed})
}

// RecordMatchingAnswer stores a case-to-diagnosis mapping for a multi-case
// matching question.
func (s *Session) RecordMatchingAnswer(number int, mapping map[string]string, elapsed float64) error {
	return s.record(number, Answer{Mapping: mapping, TimeSpent: elapsed})
}

func (s *Session) record(number int, a Answer) error {
	if s.quiz == nil {
		return ErrSessionNotStarted
	}
	if number < 1 || number > len(s.quiz.Questions) {
		return fmt.Errorf("%w: %d", ErrInvalidQuestionNumber, number)
	}

	if a.TimeSpent < 0 {
		if started, ok := s.questionStart[number]; ok {
			a.TimeSpent = s.now().Sub(started).Seconds()
		} else {
			a.TimeSpent = 0
			logging.Warnf("no start time recorded for question %d, using 0", number)
		}
	}
	a.Timestamp = s.now()

	s.answers[number] = a
	logging.Debugf("recorded answer for question %d", number)
	return nil
}

// Reset clears all session state so the session can score another quiz.
func (s *Session) Reset() {
	s.quiz = nil
	s.answers = nil
	s.results = nil
	s.startedAt = time.Time{}
	s.questionStart = nil
	s.simCache = nil
	s.sessionXP = 0
	s.achievementsAwarded = nil
	logging.Infof("scoring session %s reset", s.ID)
}

// Summary is a quick view of session state before scores are calculated.
type Summary struct {
	Active          time.Duration `json:"-"`
	Started         bool          `json:"started"`
	ScoringMode     Mode          `json:"scoring_mode"`
	TotalQuestions  int           `json:"total_questions"`
	Answered        int           `json:"answered_questions"`
	Unanswered      int           `json:"unanswered_questions"`
	SessionStart    time.Time     `json:"session_start"`
	SessionDuration float64       `json:"session_duration"`
}

// SessionSummary reports the current answering progress.
func (s *Session) SessionSummary() Summary {
	if s.quiz == nil {
		return Summary{Started: false, ScoringMode: s.mode}
	}
	total := len(s.quiz.Questions)
	answered := len(s.answers)
	return Summary{
		Started:         true,
		ScoringMode:     s.mode,
		TotalQuestions:  total,
		Answered:        answered,
		Unanswered:      total - answered,
		SessionStart:    s.startedAt,
		SessionDuration: s.now().Sub(s.startedAt).Seconds(),
	}
}

// ProgressionReport summarizes what the session did to the user's
// progression state.
type ProgressionReport struct {
	SessionXPEarned      int                `json:"session_xp_earned"`
	AchievementsAwarded  []string           `json:"achievements_awarded"`
	CurrentLevel         int                `json:"current_level"`
	TotalXP              int                `json:"total_xp"`
	XPToNextLevel        int                `json:"xp_to_next_level"`
	CurrentStreak        int                `json:"current_streak"`
	StreakMultiplier     float64            `json:"streak_multiplier"`
	SpecialtyLevels      map[string]int     `json:"specialty_levels"`
	SpecialtyAccuracy    map[string]float64 `json:"specialty_accuracy"`
	UnlockedDifficulties []string           `json:"unlocked_difficulties"`
	NextRecommendation   string             `json:"next_difficulty_recommendation"`
}

// SessionProgressionReport reports progression effects of the session. It
// returns false when no progression reference was supplied.
func (s *Session) SessionProgressionReport() (ProgressionReport, bool) {
	if s.progress == nil {
		return ProgressionReport{}, false
	}

	levels := make(map[string]int, len(s.progress.Specialties))
	accuracy := make(map[string]float64, len(s.progress.Specialties))
	for cat, prof := range s.progress.Specialties {
		levels[cat] = prof.Level
		accuracy[cat] = prof.Accuracy
	}

	return ProgressionReport{
		SessionXPEarned:      s.sessionXP,
		AchievementsAwarded:  s.achievementsAwarded,
		CurrentLevel:         s.progress.Level,
		TotalXP:              s.progress.TotalXP,
		XPToNextLevel:        s.progress.XPToNextLevel,
		CurrentStreak:        s.progress.Streak.CurrentStreak,
		StreakMultiplier:     s.progress.Streak.Multiplier,
		SpecialtyLevels:      levels,
		SpecialtyAccuracy:    accuracy,
		UnlockedDifficulties: s.progress.Unlocks.UnlockedDifficulties(),
		NextRecommendation:   s.progress.RecommendDifficulty(),
	}, true
}
