package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chefbot/src/errs"
	"chefbot/src/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoriesPage = `<html><body>
<div class="filters">
  <select class="chakra-select css-3d59fr" name="filter">
    <option value="">ทั้งหมด</option>
    <option value="blank">   </option>
    <option value="thai-food">อาหารไทย</option>
    <option value="dessert">
      ขนมหวาน
    </option>
    <option value="international">อาหารนานาชาติ</option>
    <option value="thai-food-2">อาหารไทย</option>
  </select>
</div>
</body></html>`

const dishesPage = `<html><body>
<div class="css-1jdytyu">
  <div class="css-f18oi5">ต้มยำกุ้งน้ำข้น</div>
  <div class="css-g8k6ox">
     ต้มยำรสจัดจ้าน ใส่นมข้นจืด
  </div>
</div>
<div class="css-1jdytyu">
  <div class="css-f18oi5">แกงเขียวหวานไก่</div>
</div>
<div class="card css-1jdytyu">
  <div class="css-f18oi5"><span>ผัดกะเพรา</span>หมูสับ</div>
  <div class="css-g8k6ox">เมนูจานด่วน</div>
</div>
</body></html>`

func TestParseCategories(t *testing.T) {
	categories, err := ParseCategories(strings.NewReader(categoriesPage))
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"อาหารไทย", "ขนมหวาน", "อาหารนานาชาติ"}, categories.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	token, ok := categories.Token("อาหารไทย")
	assert.True(t, ok)
	assert.Equal(t, "thai-food-2", token, "repeated label takes the last token")

	token, ok = categories.Token("ขนมหวาน")
	assert.True(t, ok, "labels are trimmed")
	assert.Equal(t, "dessert", token)
	_, ok = categories.Token("")
	assert.False(t, ok, "blank labels are skipped")
}

func TestParseCategoriesWithoutSelect(t *testing.T) {
	_, err := ParseCategories(strings.NewReader(`<html><body><p>maintenance</p></body></html>`))
	assert.Error(t, err)
}

func TestParseDishes(t *testing.T) {
	dishes, skipped, err := ParseDishes(strings.NewReader(dishesPage))
	require.NoError(t, err)

	want := []model.Dish{
		{Name: "ต้มยำกุ้งน้ำข้น", Description: "ต้มยำรสจัดจ้าน ใส่นมข้นจืด"},
		{Name: "ผัดกะเพราหมูสับ", Description: "เมนูจานด่วน"},
	}
	if diff := cmp.Diff(want, dishes); diff != "" {
		t.Errorf("dishes mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, skipped)
}

func TestParseDishesEmptyPage(t *testing.T) {
	dishes, skipped, err := ParseDishes(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, dishes)
	assert.Zero(t, skipped)
}

func newFakeScraper(pages map[string]string, err error) (*KruaScraper, *[]string) {
	var visited []string
	s := NewKruaScraper(model.ScraperConfig{BaseURL: "https://krua.co/recipe"})
	s.render = func(_ context.Context, url, _ string) (string, error) {
		visited = append(visited, url)
		if err != nil {
			return "", err
		}
		return pages[url], nil
	}
	return s, &visited
}

func TestFetchCategories(t *testing.T) {
	s, visited := newFakeScraper(map[string]string{"https://krua.co/recipe": categoriesPage}, nil)

	categories, err := s.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, categories.Len())
	assert.Equal(t, []string{"https://krua.co/recipe"}, *visited)
}

func TestFetchDishesBuildsFilterURL(t *testing.T) {
	s, visited := newFakeScraper(map[string]string{
		"https://krua.co/recipe?filter=thai-food&page=1": dishesPage,
	}, nil)

	dishes, err := s.FetchDishes(context.Background(), "thai-food")
	require.NoError(t, err)
	assert.Len(t, dishes, 2)
	assert.Equal(t, []string{"https://krua.co/recipe?filter=thai-food&page=1"}, *visited)
}

func TestFetchErrorsCarryKind(t *testing.T) {
	boom := errors.New("net::ERR_CONNECTION_RESET")
	s, _ := newFakeScraper(nil, boom)

	_, err := s.FetchCategories(context.Background())
	assert.ErrorIs(t, err, errs.ErrCategoryFetch)
	assert.ErrorIs(t, err, boom)

	_, err = s.FetchDishes(context.Background(), "dessert")
	assert.ErrorIs(t, err, errs.ErrDishFetch)
	assert.ErrorIs(t, err, boom)
}

func TestFetchCategoriesParseFailure(t *testing.T) {
	s, _ := newFakeScraper(map[string]string{"https://krua.co/recipe": "<html></html>"}, nil)

	_, err := s.FetchCategories(context.Background())
	assert.ErrorIs(t, err, errs.ErrCategoryFetch)
}

func TestCloseWithoutBrowser(t *testing.T) {
	s := NewKruaScraper(model.ScraperConfig{})
	assert.NoError(t, s.Close())
}
