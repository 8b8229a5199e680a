package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"room-booking-backend/internal/models"
	"room-booking-backend/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// Server is the server-rendered surface. It calls into the same
// services as the REST handlers, so authorization and conflict
// outcomes are identical on both surfaces.
type Server struct {
	sessions     *SessionManager
	authService  *service.AuthService
	userService  *service.UserService
	roomService  *service.RoomService
	reservations *service.ReservationService
	userStore    service.UserStore
}

func NewServer(
	sessions *SessionManager,
	authService *service.AuthService,
	userService *service.UserService,
	roomService *service.RoomService,
	reservations *service.ReservationService,
	userStore service.UserStore,
) *Server {
	return &Server{
		sessions:     sessions,
		authService:  authService,
		userService:  userService,
		roomService:  roomService,
		reservations: reservations,
		userStore:    userStore,
	}
}

// Register mounts the HTML routes and the embedded templates on the
// shared gin engine.
func (s *Server) Register(r *gin.Engine) error {
	tmpl, err := ParseTemplates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.index)
	r.GET("/signup", s.signupForm)
	r.POST("/signup", s.signup)
	r.GET("/login", s.loginForm)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)
	r.GET("/rooms", s.rooms)

	authed := r.Group("/")
	authed.Use(s.requireLogin())
	{
		authed.GET("/bookings", s.manageBookings)
		authed.GET("/bookings/new", s.reservationForm)
		authed.POST("/bookings/new", s.makeReservation)
		authed.GET("/bookings/:id/edit", s.editBookingForm)
		authed.POST("/bookings/:id/edit", s.editBooking)
		authed.POST("/bookings/:id/cancel", s.cancelBooking)
	}

	admin := r.Group("/admin")
	admin.Use(s.requireLogin(), s.requireStaff())
	{
		admin.GET("/users", s.manageUsers)
		admin.GET("/users/new", s.addUserForm)
		admin.POST("/users/new", s.addUser)
		admin.GET("/users/:id/edit", s.editUserForm)
		admin.POST("/users/:id/edit", s.editUser)
		admin.POST("/users/:id/delete", s.deleteUser)
	}

	return nil
}

// requireLogin resolves the session cookie into an actor, or redirects
// to the login page.
func (s *Server) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := s.sessions.GetUserID(c.Request)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		user, err := s.userStore.FindUserByID(userID)
		if err != nil {
			s.sessions.Clear(c.Writer)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("actor", models.Actor{ID: user.ID, Staff: user.IsStaff})
		c.Set("user", user)
		c.Next()
	}
}

func (s *Server) requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.actor(c).Staff {
			c.HTML(http.StatusForbidden, "error.html", gin.H{"Message": "Staff access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) actor(c *gin.Context) models.Actor {
	value, _ := c.Get("actor")
	actor, _ := value.(models.Actor)
	return actor
}

func (s *Server) loggedIn(c *gin.Context) bool {
	_, ok := s.sessions.GetUserID(c.Request)
	return ok
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"LoggedIn": s.loggedIn(c)})
}

func (s *Server) signupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{})
}

func (s *Server) signup(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{"Error": "Username and password are required"})
		return
	}

	response, err := s.authService.Register(username, email, password)
	if err != nil {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{"Error": err.Error()})
		return
	}

	// Automatically log the user in after signup
	if err := s.sessions.SetUserID(c.Writer, response.User.ID); err != nil {
		log.Printf("failed to set session cookie: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := s.authService.Authenticate(username, password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Invalid username or password"})
		return
	}

	if err := s.sessions.SetUserID(c.Writer, user.ID); err != nil {
		log.Printf("failed to set session cookie: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Could not start session"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) logout(c *gin.Context) {
	s.sessions.Clear(c.Writer)
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) rooms(c *gin.Context) {
	rooms, err := s.roomService.GetAllRooms()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load rooms"})
		return
	}
	c.HTML(http.StatusOK, "rooms.html", gin.H{"Rooms": rooms, "LoggedIn": s.loggedIn(c)})
}

func (s *Server) manageBookings(c *gin.Context) {
	actor := s.actor(c)
	reservations, err := s.reservations.ListVisible(actor)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load reservations"})
		return
	}
	c.HTML(http.StatusOK, "bookings.html", gin.H{
		"Reservations": reservations,
		"IsStaff":      actor.Staff,
	})
}

// reservationFormData backs the make/edit reservation pages. Staff get
// a user selector; the self-serve shape has none (two typed shapes
// instead of hiding a field at render time).
type reservationFormData struct {
	Rooms   []models.Room
	Users   []models.User
	IsStaff bool
	Edit    bool
	BookingID uint
	Values  map[string]string
	Error   string
}

func (s *Server) buildFormData(actor models.Actor) (*reservationFormData, error) {
	rooms, err := s.roomService.GetAllRooms()
	if err != nil {
		return nil, err
	}
	data := &reservationFormData{
		Rooms:   rooms,
		IsStaff: actor.Staff,
		Values:  map[string]string{},
	}
	if actor.Staff {
		users, err := s.userService.GetAllUsers(actor)
		if err != nil {
			return nil, err
		}
		data.Users = users
	}
	return data, nil
}

func (s *Server) reservationForm(c *gin.Context) {
	data, err := s.buildFormData(s.actor(c))
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load form"})
		return
	}
	c.HTML(http.StatusOK, "booking_form.html", data)
}

func (s *Server) makeReservation(c *gin.Context) {
	actor := s.actor(c)

	roomID, _ := strconv.ParseUint(c.PostForm("room_id"), 10, 32)
	dateValue := c.PostForm("date")
	start := c.PostForm("start_time")
	end := c.PostForm("end_time")

	in := service.CreateInput{
		RoomID:    uint(roomID),
		StartTime: start,
		EndTime:   end,
	}
	if actor.Staff {
		// Admin-create shape carries the target user.
		targetID, _ := strconv.ParseUint(c.PostForm("user_id"), 10, 32)
		in.TargetUserID = uint(targetID)
	}

	date, err := time.Parse(dateLayout, dateValue)
	if err == nil {
		in.Date = date
	}

	result, err := s.reservations.Create(actor, in)
	if err != nil {
		s.renderBookingFormError(c, actor, false, 0, err, map[string]string{
			"room_id": c.PostForm("room_id"), "date": dateValue,
			"start_time": start, "end_time": end, "user_id": c.PostForm("user_id"),
		})
		return
	}

	c.HTML(http.StatusOK, "reservation_success.html", gin.H{"Warning": result.Warning})
}

func (s *Server) editBookingForm(c *gin.Context) {
	actor := s.actor(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid booking id"})
		return
	}

	reservation, err := s.reservations.Get(actor, uint(id))
	if err != nil {
		s.renderServiceError(c, err)
		return
	}

	data, err := s.buildFormData(actor)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load form"})
		return
	}
	data.Edit = true
	data.BookingID = reservation.ID
	data.Values = map[string]string{
		"room_id":    strconv.FormatUint(uint64(reservation.RoomID), 10),
		"user_id":    strconv.FormatUint(uint64(reservation.UserID), 10),
		"date":       reservation.Date.Format(dateLayout),
		"start_time": reservation.StartTime,
		"end_time":   reservation.EndTime,
	}
	c.HTML(http.StatusOK, "booking_form.html", data)
}

func (s *Server) editBooking(c *gin.Context) {
	actor := s.actor(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid booking id"})
		return
	}

	patch := service.UpdateInput{}
	if v := c.PostForm("room_id"); v != "" {
		roomID, _ := strconv.ParseUint(v, 10, 32)
		rid := uint(roomID)
		patch.RoomID = &rid
	}
	if v := c.PostForm("date"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid date"})
			return
		}
		patch.Date = &date
	}
	if v := c.PostForm("start_time"); v != "" {
		patch.StartTime = &v
	}
	if v := c.PostForm("end_time"); v != "" {
		patch.EndTime = &v
	}
	if actor.Staff {
		if v := c.PostForm("user_id"); v != "" {
			userID, _ := strconv.ParseUint(v, 10, 32)
			uid := uint(userID)
			patch.UserID = &uid
		}
		if v := c.PostForm("status"); v != "" {
			patch.Status = &v
		}
	}

	_, err = s.reservations.Update(actor, uint(id), patch)
	if err != nil {
		s.renderBookingFormError(c, actor, true, uint(id), err, map[string]string{
			"room_id": c.PostForm("room_id"), "date": c.PostForm("date"),
			"start_time": c.PostForm("start_time"), "end_time": c.PostForm("end_time"),
			"user_id": c.PostForm("user_id"),
		})
		return
	}

	c.Redirect(http.StatusFound, "/bookings")
}

func (s *Server) cancelBooking(c *gin.Context) {
	actor := s.actor(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid booking id"})
		return
	}

	result, err := s.reservations.Cancel(actor, uint(id))
	if err != nil {
		s.renderServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "cancellation_success.html", gin.H{"Warning": result.Warning})
}

func (s *Server) manageUsers(c *gin.Context) {
	users, err := s.userService.GetAllUsers(s.actor(c))
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.HTML(http.StatusOK, "users.html", gin.H{"Users": users})
}

func (s *Server) addUserForm(c *gin.Context) {
	c.HTML(http.StatusOK, "user_form.html", gin.H{})
}

func (s *Server) addUser(c *gin.Context) {
	_, err := s.userService.CreateUser(s.actor(c), service.CreateUserInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		IsStaff:  c.PostForm("is_staff") == "on",
		Phone:    c.PostForm("phone"),
	})
	if err != nil {
		c.HTML(http.StatusBadRequest, "user_form.html", gin.H{"Error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, "/admin/users")
}

func (s *Server) editUserForm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid user id"})
		return
	}
	user, err := s.userService.GetUser(s.actor(c), uint(id))
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.HTML(http.StatusOK, "user_form.html", gin.H{"Edit": true, "User": user})
}

func (s *Server) editUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid user id"})
		return
	}

	var isStaff *bool
	if v := c.PostForm("is_staff"); v != "" {
		staff := v == "on"
		isStaff = &staff
	}

	_, err = s.userService.UpdateUser(s.actor(c), uint(id), service.UpdateUserInput{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		IsStaff:  isStaff,
		Phone:    c.PostForm("phone"),
	})
	if err != nil {
		c.HTML(http.StatusBadRequest, "user_form.html", gin.H{"Edit": true, "Error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, "/admin/users")
}

func (s *Server) deleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid user id"})
		return
	}
	if err := s.userService.DeleteUser(s.actor(c), uint(id)); err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/users")
}

func (s *Server) renderBookingFormError(c *gin.Context, actor models.Actor, edit bool, id uint, cause error, values map[string]string) {
	data, err := s.buildFormData(actor)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load form"})
		return
	}
	data.Edit = edit
	data.BookingID = id
	data.Values = values
	data.Error = userMessage(cause)
	c.HTML(statusFor(cause), "booking_form.html", data)
}

func (s *Server) renderServiceError(c *gin.Context, err error) {
	c.HTML(statusFor(err), "error.html", gin.H{"Message": userMessage(err)})
}

// statusFor applies the same error-to-status mapping as the REST surface.
func statusFor(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest
	case service.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, service.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case err.Error() == "room not found" || err.Error() == "user not found":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	switch {
	case service.IsConflict(err):
		return "This room is already booked for the selected time range."
	case errors.Is(err, service.ErrPermission):
		return "You do not have permission to perform this action."
	case errors.Is(err, service.ErrNotFound):
		return "The requested booking was not found."
	case service.IsValidation(err):
		return err.Error()
	case err.Error() == "room not found" || err.Error() == "user not found" ||
		err.Error() == "cannot delete another admin":
		return err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}
