package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/shopdesk/internal/shared"
)

func sampleItems() []Item {
	return []Item{
		{Seq: 1, Name: "Pen", Quantity: 100, Price: decimal.NewFromFloat(5), Supplier: "SupA", Category: CategoryStationery},
		{Seq: 2, Name: "Stapler", Quantity: 4, Price: decimal.NewFromInt(120), Supplier: "SupB", Category: CategoryOfficeSupplies},
		{Seq: 3, Name: "Gel Pen", Quantity: 10, Price: decimal.NewFromFloat(12.5), Supplier: "SupA", Category: CategoryStationery},
		{Seq: 4, Name: "Easel", Quantity: 2, Price: decimal.NewFromInt(1000), Supplier: "ArtCo", Category: CategoryArtSupplies},
		{Seq: 5, Name: "Canvas Roll", Quantity: 5, Price: decimal.NewFromFloat(1000.01), Supplier: "ArtCo", Category: CategoryArtSupplies},
		{Seq: 6, Name: "", Quantity: 1, Price: decimal.NewFromInt(1), Supplier: "SupA", Category: CategoryStationery},
	}
}

func TestFilterIdentityWithEmptyTermAndAllCategories(t *testing.T) {
	items := sampleItems()
	require.Equal(t, items, Filter(items, "", AllCategories))
	require.Equal(t, items, Filter(items, "", ""))
}

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	got := Filter(sampleItems(), "PEN", AllCategories)
	require.Len(t, got, 2)
	require.Equal(t, "Pen", got[0].Name)
	require.Equal(t, "Gel Pen", got[1].Name)
}

func TestFilterEmptyNameNeverMatchesTerm(t *testing.T) {
	for _, item := range Filter(sampleItems(), "e", AllCategories) {
		require.NotEmpty(t, item.Name)
	}
}

func TestFilterByCategoryExactMatch(t *testing.T) {
	got := Filter(sampleItems(), "", string(CategoryArtSupplies))
	require.Len(t, got, 2)
	require.Empty(t, Filter(sampleItems(), "", "art supplies"))
	require.Empty(t, Filter(sampleItems(), "stapler", string(CategoryArtSupplies)))
}

func TestFilterIsIdempotent(t *testing.T) {
	items := sampleItems()
	for _, term := range []string{"", "pen", "a", "zzz"} {
		for _, category := range []string{AllCategories, string(CategoryStationery), string(CategoryArtSupplies)} {
			once := Filter(items, term, category)
			require.Equal(t, once, Filter(once, term, category))
		}
	}
}

func TestSortStableAscending(t *testing.T) {
	items := sampleItems()

	bySupplier := Sort(items, SortBySupplier)
	names := make([]string, 0, len(bySupplier))
	for _, item := range bySupplier {
		names = append(names, item.Name)
	}
	require.Equal(t, []string{"Easel", "Canvas Roll", "Pen", "Gel Pen", "", "Stapler"}, names)

	byPrice := Sort(items, SortByPrice)
	require.Equal(t, "", byPrice[0].Name)
	require.Equal(t, "Canvas Roll", byPrice[len(byPrice)-1].Name)

	byQty := Sort(items, SortByQuantity)
	require.Equal(t, 1, byQty[0].Quantity)
	require.Equal(t, 100, byQty[len(byQty)-1].Quantity)

	require.Equal(t, "Pen", items[0].Name, "input must not be reordered")
}

func TestParseSortField(t *testing.T) {
	field, err := ParseSortField("Item")
	require.NoError(t, err)
	require.Equal(t, SortByName, field)

	field, err = ParseSortField("Price")
	require.NoError(t, err)
	require.Equal(t, SortByPrice, field)

	_, err = ParseSortField("colour")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestPaginatePartitionLaw(t *testing.T) {
	items := sampleItems()
	for pageSize := 1; pageSize <= len(items)+1; pageSize++ {
		meta := shared.NewPagination(1, pageSize, len(items))
		require.Equal(t, (len(items)+pageSize-1)/pageSize, meta.TotalPages)

		var joined []Item
		for page := 1; page <= meta.TotalPages; page++ {
			chunk, err := Paginate(items, pageSize, page)
			require.NoError(t, err)
			if page < meta.TotalPages {
				require.Len(t, chunk, pageSize)
			}
			require.NotEmpty(t, chunk)
			joined = append(joined, chunk...)
		}
		require.Equal(t, items, joined)
	}
}

func TestPaginateOutOfRangeAndInvalidSize(t *testing.T) {
	chunk, err := Paginate(sampleItems(), 10, 3)
	require.NoError(t, err)
	require.Empty(t, chunk)

	_, err = Paginate(sampleItems(), 0, 1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestTotalValueIsOrderInvariant(t *testing.T) {
	items := sampleItems()
	expected := decimal.Zero
	for _, item := range items {
		expected = expected.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	require.True(t, expected.Equal(TotalValue(items)))
	require.True(t, expected.Equal(TotalValue(Sort(items, SortByPrice))))
	require.True(t, TotalValue(nil).IsZero())
}

func TestLowStockIsStrict(t *testing.T) {
	low := LowStock(sampleItems(), DefaultLowStockThreshold)
	names := map[string]bool{}
	for _, item := range low {
		names[item.Name] = true
	}
	require.True(t, names["Canvas Roll"], "quantity 5 is low")
	require.False(t, names["Gel Pen"], "quantity 10 is not low")
}

func TestHighValueIsStrict(t *testing.T) {
	high := HighValue(sampleItems(), DefaultHighValueThreshold)
	require.Len(t, high, 1)
	require.Equal(t, "Canvas Roll", high[0].Name)
}
