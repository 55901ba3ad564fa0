package topics

const (
	// PIX
	PixCompleted    = "pix_completed"
	PixCompletedDLQ = "pix_completed_dlq"

	// Apostas PvP
	ApostaResolvida = "aposta_resolvida"
)
