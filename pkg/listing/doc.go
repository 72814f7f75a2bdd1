// Package listing implements the paginated, search-driven list controller
// shared by the movie and character browsers.
//
// A Controller drives a Gateway (one function per remote list endpoint) and
// exposes a State that moves between Idle, Loading, Loaded and Error:
//
//	ctrl, err := listing.NewController(movies.FetchMovies, listing.DefaultConfig("movies"))
//	if err != nil {
//	    return err
//	}
//	defer ctrl.Close()
//
//	states, unsubscribe := ctrl.Subscribe()
//	defer unsubscribe()
//
//	ctrl.StartLoading()
//	ctrl.SetSearchText("alien")
//	for s := range states {
//	    render(s)
//	}
//
// Search text is debounced and only the last value of a burst triggers a
// fetch. Every page-1 load starts a new generation; results that arrive for
// an older generation are dropped, so the most recently requested query
// always wins regardless of completion order.
//
// Metrics:
//   - mortyverse_list_fetches_total{list,kind}
//   - mortyverse_list_stale_results_total{list}
package listing
