package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mijnfegon/mijnfegon-backend/api/middleware"
	"github.com/mijnfegon/mijnfegon-backend/api/responses"
	"github.com/mijnfegon/mijnfegon-backend/api/validators"
	"github.com/mijnfegon/mijnfegon-backend/internal/shop"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
)

type createProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	PointsCost  int     `json:"points_cost" validate:"required,min=1"`
	RetailValue string  `json:"retail_value" validate:"required"`
	Stock       int     `json:"stock" validate:"min=0"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	PointsCost  *int    `json:"points_cost,omitempty" validate:"omitempty,min=1"`
	RetailValue *string `json:"retail_value,omitempty"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ShopCatalog lists redeemable products. Admins also see inactive articles.
func ShopCatalog(svc shop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive := middleware.RoleFromContext(r.Context()) == string(enums.UserRoleAdmin)
		items, err := svc.Catalog(r.Context(), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// ShopProductDetail returns a single product.
func ShopProductDetail(svc shop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminCreateProduct adds a new shop article.
func AdminCreateProduct(repo shop.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		retail, err := decimal.NewFromString(body.RetailValue)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "retail_value must be a decimal amount"))
			return
		}

		product := &models.Product{
			Name:        body.Name,
			Description: body.Description,
			ImageURL:    body.ImageURL,
			PointsCost:  body.PointsCost,
			RetailValue: retail,
			Stock:       body.Stock,
			IsActive:    true,
		}
		if body.IsActive != nil {
			product.IsActive = *body.IsActive
		}

		if err := repo.CreateProduct(r.Context(), product); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct patches an existing shop article.
func AdminUpdateProduct(svc shop.Service, repo shop.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.Name != nil {
			product.Name = *body.Name
		}
		if body.Description != nil {
			product.Description = body.Description
		}
		if body.ImageURL != nil {
			product.ImageURL = body.ImageURL
		}
		if body.PointsCost != nil {
			product.PointsCost = *body.PointsCost
		}
		if body.RetailValue != nil {
			retail, err := decimal.NewFromString(*body.RetailValue)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "retail_value must be a decimal amount"))
				return
			}
			product.RetailValue = retail
		}
		if body.Stock != nil {
			product.Stock = *body.Stock
		}
		if body.IsActive != nil {
			product.IsActive = *body.IsActive
		}

		if err := repo.UpdateProduct(r.Context(), product); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}
