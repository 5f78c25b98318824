package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trouve-ton-artisan/internal/catalog"
	"trouve-ton-artisan/internal/domain"
	httpez "trouve-ton-artisan/internal/transport/http/ez"
	mdw "trouve-ton-artisan/internal/transport/http/middleware"
)

// listQ carries the filter, sort and pagination params of the artisan
// listing endpoints. Param names mirror the public API; limit is bounded
// to 50 at binding time.
type listQ struct {
	Q           string  `form:"q"`
	Page        int     `form:"page,default=1"`
	Limit       int     `form:"limit,default=12" binding:"omitempty,min=1,max=50"`
	Ville       string  `form:"ville"`
	Departement string  `form:"departement"`
	SpecialtyID uint    `form:"specialite_id"`
	CategoryID  uint    `form:"categorie_id"`
	NoteMin     float64 `form:"note_min"`
	Sort        string  `form:"sort,default=rating"`
}

func (in listQ) criteria() catalog.Criteria {
	return catalog.Criteria{
		Text:        in.Q,
		City:        in.Ville,
		Department:  in.Departement,
		SpecialtyID: in.SpecialtyID,
		CategoryID:  in.CategoryID,
		MinRating:   in.NoteMin,
	}
}

type pageOut struct {
	Items []domain.Artisan `json:"items"`
	catalog.PageInfo
}

func mountArtisanActions(api *gin.RouterGroup, svc *catalog.Service) {
	ez := httpez.New(api)

	// GET /artisans  filtered, sorted, paginated listing
	httpez.RegisterAction[listQ, pageOut](ez, httpez.Action[listQ, pageOut]{
		Method: http.MethodGet,
		Path:   "/artisans",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (pageOut, error) {
			items, pi, err := svc.ListArtisans(c.Request.Context(), in.criteria(), in.Sort,
				catalog.PageRequest{Page: in.Page, Limit: in.Limit})
			if err != nil {
				return pageOut{}, err
			}
			return pageOut{Items: items, PageInfo: pi}, nil
		},
	})

	// GET /artisans/du-mois  featured picks, best rated first
	type featuredQ struct {
		Limit int `form:"limit,default=3" binding:"omitempty,min=1,max=50"`
	}
	httpez.RegisterAction[featuredQ, []domain.Artisan](ez, httpez.Action[featuredQ, []domain.Artisan]{
		Method: http.MethodGet,
		Path:   "/artisans/du-mois",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *featuredQ) ([]domain.Artisan, error) {
			return svc.ListFeatured(c.Request.Context(), in.Limit)
		},
	})

	// GET /artisans/search  free-text path, tighter per-IP limit
	type searchQ struct {
		Q     string `form:"q"`
		Limit int    `form:"limit,default=10" binding:"omitempty,min=1,max=50"`
	}
	search := api.Group("")
	search.Use(mdw.RateLimitPerIP(0.5, 30))
	ezSearch := httpez.New(search)
	httpez.RegisterAction[searchQ, []domain.Artisan](ezSearch, httpez.Action[searchQ, []domain.Artisan]{
		Method: http.MethodGet,
		Path:   "/artisans/search",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *searchQ) ([]domain.Artisan, error) {
			return svc.SearchArtisans(c.Request.Context(), in.Q, in.Limit)
		},
	})

	// GET /artisans/stats  global directory statistics
	httpez.RegisterAction[struct{}, *catalog.Stats](ez, httpez.Action[struct{}, *catalog.Stats]{
		Method: http.MethodGet,
		Path:   "/artisans/stats",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*catalog.Stats, error) {
			return svc.GetStats(c.Request.Context())
		},
	})

	// GET /artisans/categorie/:id  alias of the category listing
	httpez.RegisterAction[listQ, pageOut](ez, httpez.Action[listQ, pageOut]{
		Method: http.MethodGet,
		Path:   "/artisans/categorie/:id",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (pageOut, error) {
			id, err := paramID(c)
			if err != nil {
				return pageOut{}, err
			}
			crit := in.criteria()
			crit.CategoryID = 0 // path param wins
			items, pi, err := svc.ListArtisansOfCategory(c.Request.Context(), id, crit, in.Sort,
				catalog.PageRequest{Page: in.Page, Limit: in.Limit})
			if err != nil {
				return pageOut{}, err
			}
			return pageOut{Items: items, PageInfo: pi}, nil
		},
	})

	// GET /artisans/:id  one artisan with its specialty/category chain
	httpez.RegisterAction[struct{}, *domain.Artisan](ez, httpez.Action[struct{}, *domain.Artisan]{
		Method: http.MethodGet,
		Path:   "/artisans/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Artisan, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			return svc.GetArtisan(c.Request.Context(), id)
		},
	})
}

func paramID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := parseID(raw)
	if err != nil {
		return 0, httpez.BadRequest("invalid id: " + raw)
	}
	return id, nil
}

func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(n), nil
}
