package services

import "krishilink/internal/query"

// Field-mapping tables per collection. Column names carry the table alias
// used by the matching repository query.

var ListingFilters = concat(
	query.Schema{
		query.TextField("cropType", "l.crop_type"),
		query.ExactField("quality", "l.quality"),
		query.ExactField("category", "l.category"),
		query.ExactField("unit", "l.unit"),
		query.TextField("state", "l.state"),
		query.TextField("district", "l.district"),
		query.TextField("village", "l.village"),
		query.TextField("search", "l.crop_type", "l.variety", "l.description"),
	},
	query.NumberRange("minPrice", "maxPrice", "l.expected_price"),
)

var ToolFilters = concat(
	query.Schema{
		query.ExactField("category", "t.category"),
		query.ExactField("toolType", "t.tool_type"),
		query.TextField("state", "t.state"),
		query.TextField("district", "t.district"),
		query.TextField("search", "t.tool_name", "t.description", "t.brand"),
	},
	query.NumberRange("minPrice", "maxPrice", "t.price"),
)

var QuestionFilters = query.Schema{
	query.ExactField("category", "q.category"),
	query.ListField("tag", "q.tags"),
	query.TextField("search", "q.title", "q.body"),
}

var MarketPriceFilters = concat(
	query.Schema{
		query.TextField("crop", "mp.crop"),
		query.TextField("state", "mp.state"),
		query.TextField("district", "mp.district"),
		query.TextField("market", "mp.market"),
	},
	query.DateRange("startDate", "endDate", "mp.price_date"),
)

var MandiPriceFilters = query.Schema{
	query.TextField("crop", "m.crop"),
	query.TextField("mandi", "m.mandi_name"),
}

var FarmerListingFilters = concat(
	query.Schema{
		query.TextField("crop", "f.crop"),
		query.ExactField("grade", "f.grade"),
		query.ExactField("status", "f.status"),
	},
	query.NumberRange("minPrice", "maxPrice", "f.price_per_unit"),
)

var BuyerRequirementFilters = query.Schema{
	query.TextField("crop", "b.crop"),
	query.ExactField("grade", "b.grade"),
	query.ExactField("status", "b.status"),
}

// Default page sizes.
const (
	ListingPageSize     = 12
	ToolPageSize        = 12
	QuestionPageSize    = 10
	MarketPricePageSize = 50
	MarketplacePageSize = 20
)

func concat(parts ...[]query.Field) query.Schema {
	var out query.Schema
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
