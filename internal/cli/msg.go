package cli

// messages holds the user-facing strings for one interface language.
type messages struct {
	tagline       string
	back          string
	next          string
	skip          string
	required      string
	optional      string
	yes           string
	no            string
	step          string
	of            string
	complete      string
	reviewTitle   string
	reviewSub     string
	edit          string
	formReady     string
	emptyRequired string
	readiness     string
	nextSteps     string
	difficulty    string
	estTime       string
	fee           string
	category      string
	savedProgress string
	exitHint      string
	hintPrefix    string
}

var translations = map[string]messages{
	"en": {
		tagline:       "Your guided immigration form assistant",
		back:          "Back",
		next:          "Next",
		skip:          "Skip for now",
		required:      "Required",
		optional:      "Optional",
		yes:           "Yes",
		no:            "No",
		step:          "Step",
		of:            "of",
		complete:      "complete",
		reviewTitle:   "Review Your Answers",
		reviewSub:     "Check everything looks right before we generate your form.",
		edit:          "Edit",
		formReady:     "Your form is ready!",
		emptyRequired: "Some required fields are still empty.",
		readiness:     "Form readiness",
		nextSteps:     "Next Steps",
		difficulty:    "Difficulty",
		estTime:       "Est. time",
		fee:           "Filing fee",
		category:      "Category",
		savedProgress: "Progress saved",
		exitHint:      "esc back · ctrl+c quit",
		hintPrefix:    "Why are we asking this?",
	},
	"es": {
		tagline:       "Su asistente guiado de formularios de inmigración",
		back:          "Atrás",
		next:          "Siguiente",
		skip:          "Omitir por ahora",
		required:      "Requerido",
		optional:      "Opcional",
		yes:           "Sí",
		no:            "No",
		step:          "Paso",
		of:            "de",
		complete:      "completo",
		reviewTitle:   "Revisa tus respuestas",
		reviewSub:     "Verifica que todo esté correcto antes de generar tu formulario.",
		edit:          "Editar",
		formReady:     "¡Tu formulario está listo!",
		emptyRequired: "Algunos campos obligatorios aún están vacíos.",
		readiness:     "Preparación del formulario",
		nextSteps:     "Próximos pasos",
		difficulty:    "Dificultad",
		estTime:       "Tiempo est.",
		fee:           "Tarifa de presentación",
		category:      "Categoría",
		savedProgress: "Progreso guardado",
		exitHint:      "esc atrás · ctrl+c salir",
		hintPrefix:    "¿Por qué preguntamos esto?",
	},
}

// msgs returns the string table for lang, defaulting to English.
func msgs(lang string) messages {
	if m, ok := translations[lang]; ok {
		return m
	}
	return translations["en"]
}
