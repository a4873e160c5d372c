package services

// User-visible fallback texts. Generated answers follow the language of
// the question; these deterministic fallbacks ship in Spanish because
// that is the product's primary audience.
const (
	// msgTechnicalProblem carries the internal-error marker so the
	// response cache refuses to store it.
	msgTechnicalProblem = "[Error interno] Estamos presentando problemas técnicos. Por favor, intenta nuevamente en unos minutos."

	msgNoData = "No se encontraron datos para tu consulta."

	msgCannotAnswer = "No puedo responder esa pregunta con la información disponible."

	msgHandoff = "Entendido, te voy a comunicar con un asesor humano. Un momento por favor."
)
