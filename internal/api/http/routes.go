package httpapi

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/api-showcase/internal/currency"
	"github.com/i474232898/api-showcase/internal/geocoding"
	"github.com/i474232898/api-showcase/internal/github"
	"github.com/i474232898/api-showcase/internal/history"
	"github.com/i474232898/api-showcase/internal/images"
	"github.com/i474232898/api-showcase/internal/weather"
)

var validate = validator.New()

// Services bundles everything the routes call into. Each integration is
// independent; History records successful lookups only.
type Services struct {
	Weather   *weather.Service
	Currency  *currency.Service
	Geocoding *geocoding.Service
	GitHub    *github.Service
	Images    *images.Service
	History   *history.MemoryStore
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// Strings read from the request context are only valid inside a handler, so
// anything kept in History is copied first.
func RegisterRoutes(app *fiber.App, svc Services) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		res := svc.Weather.Lookup(c.UserContext(), c.Query("city"))
		if res.Success {
			d := res.Data
			svc.History.Record(history.FeatureWeather, utils.CopyString(strings.TrimSpace(c.Query("city"))),
				fmt.Sprintf("%s, %s %d°C %s", d.City, d.Country, d.Temperature, d.Description))
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Status(weatherStatus(res.Kind)).JSON(res)
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		names := weather.MappedNames()
		out := make(map[string]string, len(names))
		for _, n := range names {
			out[n], _ = weather.CanonicalName(n)
		}
		return c.JSON(out)
	})

	v1.Get("/cities/:name", func(c *fiber.Ctx) error {
		name, err := pathParam(c, "name")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{
			"input":     name,
			"mapped":    weather.IsMappedCity(name),
			"canonical": weather.NormalizeCityName(name),
		})
	})

	v1.Get("/currency", func(c *fiber.Ctx) error {
		req := currency.Request{From: c.Query("from"), Amount: c.Query("amount"), To: c.Query("to")}
		res := svc.Currency.Convert(c.UserContext(), req)
		if res.Success {
			amount := strconv.FormatFloat(res.Data.BaseAmount, 'f', -1, 64)
			svc.History.Record(history.FeatureCurrency, amount+" "+res.Data.BaseCurrency,
				fmt.Sprintf("%d conversions", len(res.Data.Conversions)))
			c.Set(fiber.HeaderCacheControl, maxAge(currency.RatesTTL.Seconds()))
		}
		return c.Status(res.Status).JSON(res)
	})

	v1.Get("/geocoding", func(c *fiber.Ctx) error {
		res := svc.Geocoding.Geocode(c.UserContext(), c.Query("address"))
		if res.Success {
			svc.History.Record(history.FeatureGeocoding, utils.CopyString(strings.TrimSpace(c.Query("address"))), res.Data.FormattedAddress)
		}
		return c.Status(res.Status).JSON(res)
	})

	v1.Get("/github", func(c *fiber.Ctx) error {
		res := svc.GitHub.Profile(c.UserContext(), c.Query("username"))
		if res.Success {
			svc.History.Record(history.FeatureGitHub, res.Data.User.Login,
				fmt.Sprintf("%d public repos", res.Data.User.PublicRepos))
			c.Set(fiber.HeaderCacheControl, maxAge(github.ProfileTTL.Seconds()))
		}
		return c.Status(res.Status).JSON(res)
	})

	v1.Get("/images", func(c *fiber.Ctx) error {
		var q imagesQuery
		if err := c.QueryParser(&q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "page and per_page must be integers")
		}
		res := svc.Images.Search(c.UserContext(), images.Request{Query: q.Query, Page: q.Page, PerPage: q.PerPage})
		if res.Success {
			svc.History.Record(history.FeatureImages, utils.CopyString(strings.TrimSpace(q.Query)), fmt.Sprintf("%d results", res.Data.Total))
			c.Set(fiber.HeaderCacheControl, maxAge(images.SearchTTL.Seconds()))
		}
		return c.Status(res.Status).JSON(res)
	})

	v1.Get("/history/:feature", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			if errors.Is(err, history.ErrUnknownFeature) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := svc.History.Recent(req.Feature, req.Limit)
		if err != nil {
			if errors.Is(err, history.ErrNotFound) {
				return c.JSON(fiber.Map{"feature": req.Feature, "entries": []history.Entry{}})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read lookup history")
		}
		return c.JSON(fiber.Map{"feature": req.Feature, "entries": entries})
	})

	v1.Delete("/history/:feature", func(c *fiber.Ctx) error {
		feature, err := history.ParseFeature(c.Params("feature"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		svc.History.Clear(feature)
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// weatherStatus maps a lookup failure to an HTTP status. The body always
// carries the lookup result, so the status is only a hint for clients.
func weatherStatus(kind weather.ErrorKind) int {
	switch kind {
	case weather.KindNone:
		return fiber.StatusOK
	case weather.KindValidation:
		return fiber.StatusBadRequest
	case weather.KindConfig:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadGateway
	}
}

func maxAge(seconds float64) string {
	return "public, max-age=" + strconv.Itoa(int(seconds))
}

// pathParam returns the URL-decoded route parameter.
func pathParam(c *fiber.Ctx, key string) (string, error) {
	raw := c.Params(key)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", key, err)
	}
	return decoded, nil
}

// imagesQuery holds query parameters for the image search endpoint.
type imagesQuery struct {
	Query   string `query:"query"`
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
}

// historyQuery holds parameters for the history endpoint.
type historyQuery struct {
	Feature history.Feature `validate:"required"`
	Limit   int             `validate:"gte=0,lte=100"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	feature, err := history.ParseFeature(c.Params("feature"))
	if err != nil {
		return err
	}
	h.Feature = feature

	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		h.Limit = n
	}
	return nil
}
