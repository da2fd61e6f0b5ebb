package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// 管理画面の更新失敗。戻した後の一覧も返す
type MutationErrorResponse[T any] struct {
	Error string `json:"error"`
	Items []T    `json:"items"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 一覧を読めていればエラーと一緒に返す
func writeMutationError[T any](c echo.Context, err error, res usecase.MutationResult[T]) error {
	he, ok := usecase.AsHTTPError(err)
	if !ok || res.Items == nil {
		return writeError(c, err)
	}
	return c.JSON(he.Status, MutationErrorResponse[T]{Error: he.Message, Items: res.Items})
}

// /api/catalog の公開API
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/catalog", h.get)
}

// 販売中の商品（バーガー/ドリンク）と有効な地区
func (h *CatalogHandler) get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Catalog())
}
