package webclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/weberr"
)

const bikePage = `<html><body>
<div class="gear-details"><table>
  <tr><td>Frame Type</td><td>Road Bike</td></tr>
  <tr><td>Brand</td><td>Canyon</td></tr>
  <tr><td>Model</td><td>Ultimate</td></tr>
  <tr><td>Weight</td><td>8.2 kg</td></tr>
</table></div>
<table>
  <thead><tr><th>Type</th><th>Brand</th><th>Model</th><th>Added</th><th>Removed</th><th>Distance</th><th></th></tr></thead>
  <tbody>
    <tr><td>Chain</td><td>Shimano</td><td>HG701</td><td>Jan 5, 2024</td><td></td><td>1,234.5 km</td><td><a href="/bikes/555/components/9001">Delete</a></td></tr>
    <tr><td>Chain</td><td>KMC</td><td>X11</td><td>since beginning</td><td>Jan 4, 2024</td><td>3,000 km</td><td><a href="/bikes/555/components/9000">Delete</a></td></tr>
  </tbody>
</table>
</body></html>`

func bikeHandler(mux *http.ServeMux) *int {
	calls := 0
	mux.HandleFunc("/bikes/555", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, bikePage)
	})
	return &calls
}

func TestGetBikeDetails(t *testing.T) {
	c, mux, teardown := setup(t)
	defer teardown()
	calls := bikeHandler(mux)

	d, err := c.GetBikeDetails(context.Background(), "b555")
	if err != nil {
		t.Fatal(err)
	}
	if d.FrameType != model.RoadBike || d.BrandName != "Canyon" || d.Weight != 8.2 || len(d.Components) != 2 {
		t.Errorf("unexpected details %+v", d)
	}
	if d.Components[0].ID != 9001 || d.Components[0].Distance != 1234500 || d.Components[0].Removed != nil {
		t.Errorf("unexpected component %+v", d.Components[0])
	}

	if _, err := c.GetBikeDetails(context.Background(), "b555"); err != nil {
		t.Fatal(err)
	}
	if *calls != 1 {
		t.Errorf("expected cached details, got %d page loads", *calls)
	}

	c.InvalidateBike("b555")
	if _, err := c.GetBikeDetails(context.Background(), "b555"); err != nil {
		t.Fatal(err)
	}
	c.InvalidateAll()
	if _, err := c.GetBikeDetails(context.Background(), "b555"); err != nil {
		t.Fatal(err)
	}
	if *calls != 3 {
		t.Errorf("expected a reload after each invalidation, got %d page loads", *calls)
	}
}

func TestGetBikeDetailsErrors(t *testing.T) {
	c, mux, teardown := setup(t)
	defer teardown()
	mux.HandleFunc("/bikes/1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	mux.HandleFunc("/bikes/2", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p>Nothing here</p></body></html>`)
	})

	if _, err := c.GetBikeDetails(context.Background(), "g1"); !errors.Is(err, &weberr.ValidationError{Field: "gear_id"}) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := c.GetBikeDetails(context.Background(), "b1"); !errors.Is(err, &weberr.RemoteError{StatusCode: http.StatusFound}) {
		t.Errorf("expected remote error, got %v", err)
	}
	if _, err := c.GetBikeDetails(context.Background(), "b2"); !errors.Is(err, &weberr.ScrapeError{Reason: weberr.ReasonLayoutChanged}) {
		t.Errorf("expected layout changed, got %v", err)
	}
}

func gearHandlers(mux *http.ServeMux) {
	mux.HandleFunc(fmt.Sprintf("/athletes/%d/gear/bikes", athleteID), func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"id":555,"display_name":"Roadie","default":true,"total_distance":1234.5,"brand_name":"Listed"}]`)
	})
	mux.HandleFunc(fmt.Sprintf("/athletes/%d/gear/shoes", athleteID), func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"id":321,"display_name":"Trail","total_distance":"412 km"}]`)
	})
}

func TestGetAllBikes(t *testing.T) {
	c, mux, teardown := setup(t)
	defer teardown()
	gearHandlers(mux)
	calls := bikeHandler(mux)
	ctx := context.Background()

	bikes, err := c.GetAllBikes(ctx, athleteID)
	if err != nil {
		t.Fatal(err)
	}
	if len(bikes) != 1 {
		t.Fatalf("expected one bike, got %d", len(bikes))
	}
	b := bikes[0]
	if b.ID != "b555" || b.Name != "Roadie" || !b.Primary || b.Distance != 1234500 {
		t.Errorf("unexpected bike %+v", b)
	}

	brand, _ := b.BrandName(ctx)
	if brand != "Listed" || *calls != 0 {
		t.Errorf("expected listed brand without a page load, got %q after %d", brand, *calls)
	}
	ft, _ := b.FrameType(ctx)
	on, err := b.ComponentsOnDate(ctx, time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if ft != model.RoadBike || len(on) != 1 || on[0].ID != 9000 || *calls != 1 {
		t.Errorf("unexpected lazy details %v %+v after %d loads", ft, on, *calls)
	}
}

func TestGetAllGear(t *testing.T) {
	c, mux, teardown := setup(t)
	defer teardown()
	gearHandlers(mux)

	gear, err := c.GetAllGear(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(gear) != 2 || gear[0].GearID() != "b555" || gear[1].GearID() != "g321" {
		t.Fatalf("unexpected gear %v", gear)
	}
	if s := gear[1].(*model.Shoe); s.Distance != 412000 {
		t.Errorf("expected shoe distance in meters, got %v", s.Distance)
	}

	g, err := c.GetGear(context.Background(), "g321")
	if err != nil || g.GearName() != "Trail" {
		t.Errorf("expected shoe Trail, got %v (%v)", g, err)
	}
	if _, err := c.GetGear(context.Background(), "b999"); !errors.Is(err, &weberr.ScrapeError{Reason: weberr.ReasonNotFound}) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGetAllGearSequential(t *testing.T) {
	c, mux, teardown := setup(t)
	defer teardown()

	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
		order    []string
	)
	track := func(name, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			mu.Lock()
			inFlight++
			maxSeen = max(maxSeen, inFlight)
			order = append(order, name)
			mu.Unlock()
			time.Sleep(20 * time.Millisecond)
			mu.Lock()
			inFlight--
			mu.Unlock()
			fmt.Fprint(w, body)
		}
	}
	mux.HandleFunc(fmt.Sprintf("/athletes/%d/gear/bikes", athleteID), track("bikes", `[{"id":555,"display_name":"Roadie"}]`))
	mux.HandleFunc(fmt.Sprintf("/athletes/%d/gear/shoes", athleteID), track("shoes", `[{"id":321,"display_name":"Trail"}]`))

	if _, err := c.GetAllGear(context.Background()); err != nil {
		t.Fatal(err)
	}
	if maxSeen != 1 {
		t.Errorf("expected one request at a time, saw %d", maxSeen)
	}
	if len(order) != 2 || order[0] != "bikes" || order[1] != "shoes" {
		t.Errorf("expected bikes then shoes, got %v", order)
	}
}
