package catalog

// QuizOption is one answer in the form-finder quiz, recommending a form.
type QuizOption struct {
	Label  string
	FormID string
}

// Quiz is a single-question form-finder: the user picks the option closest to
// their situation and gets a recommended form.
type Quiz struct {
	Prompt  string
	Options []QuizOption
}

// FormQuiz returns the built-in "what form do I need?" quiz.
func FormQuiz() Quiz {
	return Quiz{
		Prompt: "What best describes your situation?",
		Options: []QuizOption{
			{Label: "I have a Green Card and need to renew or replace it", FormID: "I-90"},
			{Label: "I want to apply for U.S. citizenship", FormID: "N-400"},
			{Label: "I need to travel outside the U.S. and need a travel document", FormID: "I-131"},
			{Label: "I have a pending Green Card application and want to travel", FormID: "I-131"},
		},
	}
}
