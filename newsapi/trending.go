package newsapi

import (
	"context"

	. "github.com/Luismorlan/newsreader/utils/log"
	"github.com/sirupsen/logrus"
)

const trendingPageSize = 20

// Tier tells which query of the trending fallback produced the result.
type Tier int

const (
	TierCountry Tier = iota + 1
	TierDomains
	TierGlobal
)

func (t Tier) String() string {
	switch t {
	case TierCountry:
		return "country"
	case TierDomains:
		return "domains"
	case TierGlobal:
		return "global"
	}
	return "unknown"
}

// CountryDomains lists popular outlets per supported country. top-headlines
// often returns nothing for a country, these domains are queried through the
// everything endpoint instead.
var CountryDomains = map[string][]string{
	"us": {"nytimes.com", "cnn.com", "foxnews.com", "washingtonpost.com", "theverge.com", "wsj.com"},
	"gb": {"bbc.co.uk", "theguardian.com", "telegraph.co.uk", "independent.co.uk", "metro.co.uk"},
	"in": {"hindustantimes.com", "ndtv.com", "indiatoday.in", "timesofindia.indiatimes.com", "thehindu.com", "livemint.com"},
	"au": {"abc.net.au", "news.com.au", "theage.com.au", "smh.com.au", "theaustralian.com.au"},
	"ca": {"cbc.ca", "ctvnews.ca", "globalnews.ca", "theglobeandmail.com", "nationalpost.com"},
}

// Trending returns headlines for country, trying in order: country top
// headlines, the country's domain allow-list, then global top headlines. An
// unsupported country stops after the first query and returns its (possibly
// empty) result.
func (c *Client) Trending(ctx context.Context, country string, category string) (*Response, Tier, error) {
	logger := Log.WithFields(logrus.Fields{"country": country, "category": category})

	resp, err := c.TopHeadlines(ctx, TopHeadlinesParams{
		Country:  country,
		Category: category,
		PageSize: trendingPageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	if len(resp.Articles) > 0 {
		return resp, TierCountry, nil
	}

	domains, ok := CountryDomains[country]
	if !ok {
		return resp, TierCountry, nil
	}

	logger.Info("no country headlines, falling back to domain allow-list")
	resp, err = c.Everything(ctx, EverythingParams{
		Domains:  domains,
		SortBy:   "publishedAt",
		PageSize: trendingPageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	if len(resp.Articles) > 0 {
		return resp, TierDomains, nil
	}

	logger.Info("no domain articles, falling back to global headlines")
	resp, err = c.TopHeadlines(ctx, TopHeadlinesParams{
		Category: category,
		PageSize: trendingPageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	return resp, TierGlobal, nil
}
