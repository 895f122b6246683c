package garage

import "evexpert-backend/internal/domain"

// Reconcile converges the two historical price schemas onto price_czk and
// real_price_czk. Older documents carry import_price_czk (+ additional_costs)
// instead. Zero counts as missing here, so a genuinely free listing looks unpriced.
func Reconcile(doc domain.Listing) domain.Listing {
	out := doc

	price := floatOr0(doc.PriceCZK)
	if price == 0 {
		price = floatOr0(doc.ImportPriceCZK)
	}
	out.PriceCZK = &price

	realPrice := floatOr0(doc.RealPriceCZK)
	if realPrice == 0 {
		realPrice = floatOr0(doc.ImportPriceCZK) + floatOr0(doc.AdditionalCosts)
	}
	out.RealPriceCZK = &realPrice

	return out
}

// ReconcileAll reconciles every document into a fresh slice.
func ReconcileAll(docs []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, len(docs))
	for i := range docs {
		out[i] = Reconcile(docs[i])
	}
	return out
}
