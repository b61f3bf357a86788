package v1

import (
	"html/template"
	"strings"

	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/logger"
)

// Pre-rendered HTML fragments returned to the client so it can splice the
// wishlist page and the confirmation popup without a reload.

var fragments = template.Must(template.New("fragments").Parse(`
{{define "popup"}}<div class="wishlist-popup" data-product-id="{{.ProductID}}">
	<p class="wishlist-popup-message">{{.Message}}</p>
	<a class="wishlist-popup-link button" href="{{.WishlistPageURL}}">{{.ViewWishlistText}}</a>
</div>{{end}}

{{define "loop_item"}}<tr class="wishlist-item" data-product-id="{{.Product.ID}}">
	<td class="wishlist-item-remove"><a href="#" class="wishlist-remove" data-product-id="{{.Product.ID}}">&times;</a></td>
	{{if .Product.Image}}<td class="wishlist-item-thumb"><img src="{{.Product.Image}}" alt="{{.Product.Name}}"></td>{{end}}
	<td class="wishlist-item-name"><a href="/products/{{.Product.Slug}}">{{.Product.Name}}</a></td>
	<td class="wishlist-item-price">{{if .Product.SalePrice}}<del>{{.Product.BasePrice}}</del> <ins>{{.Product.SalePrice}}</ins>{{else}}{{.Product.BasePrice}}{{end}}</td>
	<td class="wishlist-item-stock {{.Product.StockStatus}}">{{if .Product.InStock}}In stock{{else}}Out of stock{{end}}</td>
	<td class="wishlist-item-actions"><a href="#" class="button wishlist-add-to-cart" data-product-id="{{.Product.ID}}">Add to cart</a></td>
</tr>{{end}}

{{define "undo_notice"}}<a href="#" data-product-id="{{.ProductID}}" class="wishlist-undo">{{.UndoText}}</a> {{.Message}}{{end}}

{{define "cart_notice"}}<div class="wishlist-cart-notice">{{.Message}} {{if .CartURL}}<a class="wishlist-cart-link" href="{{.CartURL}}">View Cart</a>{{end}}</div>{{end}}
`))

type popupData struct {
	ProductID        int64
	Message          string
	WishlistPageURL  string
	ViewWishlistText string
}

type loopItemData struct {
	Product *domain.Product
}

type undoNoticeData struct {
	ProductID int64
	UndoText  string
	Message   string
}

type cartNoticeData struct {
	Message string
	CartURL string
}

func renderFragment(name string, data interface{}) string {
	var sb strings.Builder
	if err := fragments.ExecuteTemplate(&sb, name, data); err != nil {
		logger.Get().Error().Err(err).Str("fragment", name).Msg("Fragment render failed")
		return ""
	}
	return strings.TrimSpace(sb.String())
}
