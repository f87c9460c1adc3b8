package advisor

import (
	"github.com/cardwiz/cardwiz/internal/classify"
	"github.com/cardwiz/cardwiz/internal/model"
)

// BuildRequest turns resolved free text, the selected currency, and recent
// validation history into an immutable recommendation request. Category and
// amount are inferred from the text; the validations are folded into the
// context digest the backend uses to personalize ranking.
func BuildRequest(text, currency string, recent []model.Validation) model.RecommendationRequest {
	return model.RecommendationRequest{
		MerchantName:      text,
		Category:          classify.InferCategory(text),
		TransactionAmount: classify.ExtractAmount(text),
		Currency:          currency,
		ContextNotes:      model.ContextDigest(recent),
	}
}
