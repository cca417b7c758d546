package feed

// Selector holds the active category and resets the controller when the user
// switches tabs.
type Selector struct {
	ctrl *Controller
}

// NewSelector wraps ctrl.
func NewSelector(ctrl *Controller) *Selector {
	return &Selector{ctrl: ctrl}
}

// Controller returns the wrapped controller.
func (s *Selector) Controller() *Controller {
	return s.ctrl
}

// Active returns the current category.
func (s *Selector) Active() Category {
	return s.ctrl.Category()
}

// Select switches to category. Selecting the active category is a no-op.
// Otherwise the controller is reset and page 1 is requested; the returned
// bool is false when the request has to wait for a coordinate or for a stale
// fetch to settle (the controller issues it later).
func (s *Selector) Select(category Category) (Request, bool) {
	if category == s.ctrl.Category() {
		return Request{}, false
	}
	s.ctrl.ResetForCategory(category)
	req, skip := s.ctrl.RequestNextPage()
	return req, skip == SkipNone
}

// Toggle selects the other category.
func (s *Selector) Toggle() (Request, bool) {
	if s.ctrl.Category() == Courses {
		return s.Select(Facilities)
	}
	return s.Select(Courses)
}
