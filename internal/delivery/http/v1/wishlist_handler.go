package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wishlist-backend/internal/delivery/http/middleware"
	"wishlist-backend/internal/domain"
	"wishlist-backend/internal/usecase"
	"wishlist-backend/pkg/logger"
	"wishlist-backend/pkg/utils"
)

// WishlistHandler exposes the wishlist mutation surface. Handlers are
// stateless: each request resolves its identity through the middleware,
// validates its nonce, and goes through the usecase for every write.
// Malformed input (missing or non-numeric product IDs) never errors; it
// degrades to a successful-shaped no-op response so the client UX is not
// interrupted. Only a bad nonce is terminal.
type WishlistHandler struct {
	uc          *usecase.WishlistUsecase
	nonceSecret string
	nonceTTL    time.Duration
}

func NewWishlistHandler(uc *usecase.WishlistUsecase, nonceSecret string, nonceTTL time.Duration) *WishlistHandler {
	return &WishlistHandler{uc: uc, nonceSecret: nonceSecret, nonceTTL: nonceTTL}
}

func requestIdentity(r *http.Request) domain.Identity {
	return middleware.IdentityFromContext(r.Context())
}

// verifyNonce terminates the request with a plain-text body (no JSON
// envelope) when the nonce is missing or invalid. The client must obtain
// a fresh nonce from the session endpoint; there is no retry here.
func (h *WishlistHandler) verifyNonce(w http.ResponseWriter, r *http.Request, identity domain.Identity) bool {
	if !utils.VerifyNonce(h.nonceSecret, identity.Key(), r.FormValue("nonce")) {
		http.Error(w, "Oops! nonce error", http.StatusForbidden)
		return false
	}
	return true
}

// GetSession bootstraps the client: the nonce for this identity, the item
// count, the behavior settings the front-end needs, and the guest
// reminder notice when applicable.
func (h *WishlistHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	identity := requestIdentity(r)
	settings := h.uc.Settings()

	count, err := h.uc.Count(r.Context(), identity)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("Wishlist count failed")
		count = 0
	}

	data := map[string]interface{}{
		"nonce":             utils.GenerateNonce(h.nonceSecret, identity.Key(), h.nonceTTL),
		"count":             count,
		"authenticated":     identity.Authenticated(),
		"wishlist_page_url": settings.WishlistPageURL,
		"settings": map[string]interface{}{
			"button_action":          settings.ButtonAction,
			"show_icon":              settings.ShowButtonIcon,
			"remove_on_second_click": settings.RemoveOnSecondClick,
		},
	}

	// Guests with saved items get a reminder that the list is temporary.
	if !identity.Authenticated() && count > 0 {
		days := h.uc.GuestSessionDays(r.Context(), identity)
		data["guest_notice"] = true
		data["guest_notice_text"] = utils.ReplaceText(settings.Texts.GuestReminder, map[string]string{
			"{guest_session_in_days}": fmt.Sprintf("%d", days),
		})
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: data})
}

// GetWishlist returns the rendered wishlist for the wishlist page.
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	identity := requestIdentity(r)

	items, err := h.uc.Items(r.Context(), identity)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("Wishlist read failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load wishlist")
		return
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: map[string]interface{}{
		"items": items,
		"count": len(items),
	}})
}

// UpdateWishlist is the toggle endpoint behind the heart button. The
// response tells the client what happened (added, removed,
// already_in_wishlist), what to do next (redirect, popup) and carries the
// rendered fragments for splicing.
func (h *WishlistHandler) UpdateWishlist(w http.ResponseWriter, r *http.Request) {
	identity := requestIdentity(r)
	if !h.verifyNonce(w, r, identity) {
		return
	}
	settings := h.uc.Settings()
	ctx := r.Context()

	productID := utils.ParseProductID(r.FormValue("product_id"))
	removeID := utils.ParseProductID(r.FormValue("remove_product"))

	data := map[string]interface{}{
		"product_id": productID,
		"show_icon":  settings.ShowButtonIcon,
	}

	// Explicit removal leg (undo of an add, or a dedicated remove control).
	if removeID != 0 {
		if err := h.uc.Remove(ctx, identity, removeID); err != nil {
			logger.WithContext(ctx).Error().Err(err).Int64("product_id", removeID).Msg("Wishlist remove failed")
		} else {
			data["product_id"] = removeID
			data["removed"] = true
			data["template"] = h.popup(ctx, removeID, settings.Texts.RemovedFromWishlist)
		}
		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: data})
		return
	}

	if productID == 0 {
		// Absorbed: nothing valid to act on, still a successful response.
		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: data})
		return
	}

	switch settings.ButtonAction {
	case domain.ButtonActionRedirect:
		data["redirect"] = true
		data["redirect_url"] = settings.WishlistPageURL
	case domain.ButtonActionPopup:
		data["popup"] = true
	}

	result, err := h.uc.Toggle(ctx, identity, productID)
	if err != nil {
		// Store failures are fail-silent: prior state is intact, respond
		// as a no-op.
		logger.WithContext(ctx).Error().Err(err).Int64("product_id", productID).Msg("Wishlist toggle failed")
		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: data})
		return
	}

	switch {
	case result.Added:
		data["added"] = true
		data["template"] = h.popup(ctx, productID, settings.Texts.AddedToWishlist)
		if item := h.loopItem(ctx, productID); item != "" {
			data["loop_item"] = item
		}
	case result.Removed:
		data["removed"] = true
		data["template"] = h.popup(ctx, productID, settings.Texts.RemovedFromWishlist)
	case result.AlreadyInWishlist:
		data["already_in_wishlist"] = true
		data["template"] = h.popup(ctx, productID, settings.Texts.AlreadyInWishlist)
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: data})
}

// AddToCart hands one product (or, with cart_all, every member) to the
// external cart and reflects the outcome. Cart rejections are reported in
// the aggregate notice, not as request failures.
func (h *WishlistHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	identity := requestIdentity(r)
	if !h.verifyNonce(w, r, identity) {
		return
	}
	settings := h.uc.Settings()
	ctx := r.Context()

	if utils.IsTruthy(r.FormValue("cart_all")) {
		result, err := h.uc.AddAllToCart(ctx, identity)
		if err != nil {
			logger.WithContext(ctx).Error().Err(err).Msg("Cart-all failed")
		}

		data := map[string]interface{}{
			"added_to_cart": len(result.Added) > 0,
		}
		if result.Removed {
			data["removed"] = true
		}
		// Items the cart did not accept stay on the page.
		loopItems := make([]string, 0, len(result.Skipped))
		for _, id := range result.Skipped {
			if item := h.loopItem(ctx, id); item != "" {
				loopItems = append(loopItems, item)
			}
		}
		if len(loopItems) > 0 {
			data["loop_item"] = loopItems
		}
		data["add_to_cart_notice"] = renderFragment("cart_notice", cartNoticeData{
			Message: fmt.Sprintf("%d of %d products added to your cart.", len(result.Added), len(result.Added)+len(result.Skipped)),
			CartURL: h.uc.CartURL(),
		})

		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: data})
		return
	}

	productID := utils.ParseProductID(r.FormValue("product_id"))
	data := map[string]interface{}{"added_to_cart": false}
	if productID == 0 {
		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: data})
		return
	}

	add, err := h.uc.AddToCart(ctx, identity, productID)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Int64("product_id", productID).Msg("Cart add failed")
	}

	data["added_to_cart"] = add.Added
	if add.Added {
		if settings.RedirectToCart {
			data["cart_url"] = h.uc.CartURL()
		}
		if add.Removed {
			data["removed"] = true
		}
		data["add_to_cart_notice"] = renderFragment("cart_notice", cartNoticeData{
			Message: fmt.Sprintf("%q has been added to your cart.", h.uc.ProductName(ctx, productID)),
			CartURL: h.uc.CartURL(),
		})
	} else {
		data["add_to_cart_notice"] = renderFragment("cart_notice", cartNoticeData{
			Message: fmt.Sprintf("%q could not be added to your cart.", h.uc.ProductName(ctx, productID)),
		})
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: data})
}

// RemoveProduct removes an item from the wishlist page and returns an
// undo affordance referencing the same product.
func (h *WishlistHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	identity := requestIdentity(r)
	if !h.verifyNonce(w, r, identity) {
		return
	}
	settings := h.uc.Settings()
	ctx := r.Context()

	productID := utils.ParseProductID(r.FormValue("product_id"))
	if productID == 0 {
		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true})
		return
	}

	if err := h.uc.Remove(ctx, identity, productID); err != nil {
		logger.WithContext(ctx).Error().Err(err).Int64("product_id", productID).Msg("Wishlist remove failed")
		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true})
		return
	}

	notice := renderFragment("undo_notice", undoNoticeData{
		ProductID: productID,
		UndoText:  settings.Texts.Undo,
		Message: utils.ReplaceText(settings.Texts.RemovedUndo, map[string]string{
			"{product_name}": h.uc.ProductName(ctx, productID),
		}),
	})

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: map[string]interface{}{
		"remove_notice": notice,
	}})
}

// AddToWishlistFallback is the non-JS path: GET ?add-to-wishlist=<id>
// adds synchronously and redirects to the wishlist page.
func (h *WishlistHandler) AddToWishlistFallback(w http.ResponseWriter, r *http.Request) {
	identity := requestIdentity(r)
	settings := h.uc.Settings()

	if productID := utils.ParseProductID(r.URL.Query().Get("add-to-wishlist")); productID != 0 {
		if err := h.uc.Add(r.Context(), identity, productID); err != nil {
			logger.WithContext(r.Context()).Error().Err(err).Int64("product_id", productID).Msg("Wishlist add failed")
		}
	}

	http.Redirect(w, r, settings.WishlistPageURL, http.StatusSeeOther)
}

func (h *WishlistHandler) popup(ctx context.Context, productID int64, text string) string {
	settings := h.uc.Settings()
	return renderFragment("popup", popupData{
		ProductID: productID,
		Message: utils.ReplaceText(text, map[string]string{
			"{product_name}": h.uc.ProductName(ctx, productID),
		}),
		WishlistPageURL:  settings.WishlistPageURL,
		ViewWishlistText: settings.Texts.ViewWishlist,
	})
}

func (h *WishlistHandler) loopItem(ctx context.Context, productID int64) string {
	p, err := h.uc.ProductSummary(ctx, productID)
	if err != nil || p == nil {
		return ""
	}
	return renderFragment("loop_item", loopItemData{Product: p})
}
