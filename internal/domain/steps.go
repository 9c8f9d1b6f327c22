package domain

import "fmt"

// Step is a stage of the design workflow. Values are the user-facing step numbers.
type Step int

const (
	StepUpload Step = iota + 1
	StepRoomType
	StepTheme
	StepDimensions
	StepFurniture
	StepPriceRange
	StepSearch
)

// TotalSteps is the number of steps tracked for progress reporting.
const TotalSteps = 7

var stepHints = map[Step]string{
	StepUpload:     "Please upload room image first",
	StepRoomType:   "Please select room type first",
	StepTheme:      "Please select theme first",
	StepDimensions: "Please set room dimensions first",
	StepFurniture:  "Please select furniture first",
	StepPriceRange: "Please set price range first",
	StepSearch:     "Please search for furniture first",
}

var stepNames = map[Step]string{
	StepUpload:     "upload",
	StepRoomType:   "room_type",
	StepTheme:      "theme",
	StepDimensions: "dimensions",
	StepFurniture:  "furniture",
	StepPriceRange: "price_range",
	StepSearch:     "search",
}

// Name returns the machine-readable step name
func (s Step) Name() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "unknown"
}

// Hint returns the message shown when the step is missing
func (s Step) Hint() string {
	return fmt.Sprintf("%s (Step %d)", stepHints[s], int(s))
}

// Completed reports whether the session has finished the given step.
func (s *Session) Completed(step Step) bool {
	switch step {
	case StepUpload:
		return s.RoomImageURL != ""
	case StepRoomType:
		return s.RoomType != ""
	case StepTheme:
		return s.Theme != ""
	case StepDimensions:
		return s.Room != nil
	case StepFurniture:
		return len(s.Furniture) > 0
	case StepPriceRange:
		return s.PriceRange != nil
	case StepSearch:
		return len(s.SearchResults) > 0
	}
	return false
}

// Require checks steps in order and returns a *PrerequisiteError for the first one missing.
func (s *Session) Require(steps ...Step) error {
	for _, step := range steps {
		if !s.Completed(step) {
			return &PrerequisiteError{Step: step}
		}
	}
	return nil
}

// Progress summarizes how far a session has advanced through the workflow.
type Progress struct {
	StepsCompleted int     `json:"steps_completed"`
	TotalSteps     int     `json:"total_steps"`
	Percentage     float64 `json:"percentage"`
	NextStep       string  `json:"next_step,omitempty"`
}

// Progress reports completed steps and the first incomplete one
func (s *Session) Progress() Progress {
	p := Progress{TotalSteps: TotalSteps}
	for step := StepUpload; step <= StepSearch; step++ {
		if s.Completed(step) {
			p.StepsCompleted++
		} else if p.NextStep == "" {
			p.NextStep = step.Name()
		}
	}
	p.Percentage = Round2(float64(p.StepsCompleted) / TotalSteps * 100)
	return p
}
