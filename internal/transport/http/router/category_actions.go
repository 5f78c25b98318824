package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trouve-ton-artisan/internal/catalog"
	"trouve-ton-artisan/internal/domain"
	httpez "trouve-ton-artisan/internal/transport/http/ez"
)

func mountCategoryActions(api *gin.RouterGroup, svc *catalog.Service) {
	ez := httpez.New(api)

	// GET /categories  alphabetical, optionally with counts
	type catsQ struct {
		WithStats bool `form:"with_stats"`
	}
	httpez.RegisterAction[catsQ, []catalog.CategoryView](ez, httpez.Action[catsQ, []catalog.CategoryView]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *catsQ) ([]catalog.CategoryView, error) {
			return svc.ListCategories(c.Request.Context(), in.WithStats)
		},
	})

	// GET /categories/search?name=...  exact lookup after normalization
	type nameQ struct {
		Name string `form:"name"`
	}
	httpez.RegisterAction[nameQ, *domain.Category](ez, httpez.Action[nameQ, *domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories/search",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *nameQ) (*domain.Category, error) {
			return svc.FindCategoryByName(c.Request.Context(), in.Name)
		},
	})

	// GET /categories/stats/general  global repartition across categories
	httpez.RegisterAction[struct{}, *catalog.CategoryOverview](ez, httpez.Action[struct{}, *catalog.CategoryOverview]{
		Method: http.MethodGet,
		Path:   "/categories/stats/general",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*catalog.CategoryOverview, error) {
			return svc.GetCategoryOverview(c.Request.Context())
		},
	})

	// GET /categories/:id  one category with specialties and counts
	httpez.RegisterAction[struct{}, *catalog.CategoryDetail](ez, httpez.Action[struct{}, *catalog.CategoryDetail]{
		Method: http.MethodGet,
		Path:   "/categories/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*catalog.CategoryDetail, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			return svc.GetCategory(c.Request.Context(), id)
		},
	})

	// GET /categories/:id/specialites
	type specsQ struct {
		WithCounts bool `form:"with_artisans_count"`
	}
	httpez.RegisterAction[specsQ, []catalog.SpecialtyView](ez, httpez.Action[specsQ, []catalog.SpecialtyView]{
		Method: http.MethodGet,
		Path:   "/categories/:id/specialites",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *specsQ) ([]catalog.SpecialtyView, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			return svc.ListSpecialtiesOfCategory(c.Request.Context(), id, in.WithCounts)
		},
	})

	// GET /categories/:id/artisans  category-scoped listing
	httpez.RegisterAction[listQ, pageOut](ez, httpez.Action[listQ, pageOut]{
		Method: http.MethodGet,
		Path:   "/categories/:id/artisans",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (pageOut, error) {
			id, err := paramID(c)
			if err != nil {
				return pageOut{}, err
			}
			crit := in.criteria()
			crit.CategoryID = 0
			items, pi, err := svc.ListArtisansOfCategory(c.Request.Context(), id, crit, in.Sort,
				catalog.PageRequest{Page: in.Page, Limit: in.Limit})
			if err != nil {
				return pageOut{}, err
			}
			return pageOut{Items: items, PageInfo: pi}, nil
		},
	})
}
