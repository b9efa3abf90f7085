package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/absensi/absensi/internal/dao"
)

const clockLayout = "15:04"

func (s *Server) todayOf(u dao.User) (dao.Attendance, bool) {
	today := s.now().Format(time.DateOnly)
	return s.attendance.findFunc(func(a dao.Attendance) bool {
		return a.UserID == u.ID && a.Date == today
	})
}

func (s *Server) today(w http.ResponseWriter, r *http.Request) {
	a, ok := s.todayOf(currentUser(r))
	if !ok {
		fail(w, http.StatusNotFound, "No attendance recorded today", nil)
		return
	}
	respond(w, http.StatusOK, a, msgSuccess)
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if _, ok := s.todayOf(u); ok {
		fail(w, http.StatusConflict, "Attendance already recorded today", nil)
		return
	}

	now := s.now()
	a, err := s.attendance.insert(dao.Attendance{
		UserID:     u.ID,
		InternName: u.Name,
		Email:      u.Email,
		Date:       now.Format(time.DateOnly),
		Status:     dao.StatusPresent,
		CheckIn:    now.Format(clockLayout),
	})
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	s.log.Info("check in", "user", u.ID, "at", a.CheckIn)

	respond(w, http.StatusCreated, a, "Checked in successfully!")
}

func (s *Server) checkOut(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	a, ok := s.todayOf(u)
	switch {
	case !ok || a.Status != dao.StatusPresent || a.CheckIn == "":
		fail(w, http.StatusConflict, "You have not checked in today", nil)
		return
	case a.CheckOut != "":
		fail(w, http.StatusConflict, "Already checked out today", nil)
		return
	}

	a.CheckOut = s.now().Format(clockLayout)
	a, _, err := s.attendance.replace(a.ID, a)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	s.log.Info("check out", "user", u.ID, "at", a.CheckOut)

	respond(w, http.StatusOK, a, "Checked out successfully!")
}

// leave records a sick leave or a permit request for today.
func (s *Server) leave(status dao.AttendanceStatus, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dao.ReasonRequest
		if err := decodeBody(r, &req); err != nil {
			fail(w, http.StatusBadRequest, msgBadRequest, nil)
			return
		}
		if strings.TrimSpace(req.Reason) == "" {
			fail(w, http.StatusUnprocessableEntity, msgReason, map[string][]string{"reason": {msgReason}})
			return
		}

		u := currentUser(r)
		if _, ok := s.todayOf(u); ok {
			fail(w, http.StatusConflict, "Attendance already recorded today", nil)
			return
		}
		a, err := s.attendance.insert(dao.Attendance{
			UserID:     u.ID,
			InternName: u.Name,
			Email:      u.Email,
			Date:       s.now().Format(time.DateOnly),
			Status:     status,
			Reason:     strings.TrimSpace(req.Reason),
		})
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		s.log.Info("leave", "user", u.ID, "status", status)

		respond(w, http.StatusCreated, a, msg)
	}
}

// statistics summarizes the presence of interns today.
func (s *Server) statistics(w http.ResponseWriter, _ *http.Request) {
	var st dao.Statistic
	for _, u := range s.users.all() {
		if u.Role == roleIntern {
			st.TotalInterns++
		}
	}

	today := s.now().Format(time.DateOnly)
	for _, a := range s.attendance.all() {
		if a.Date != today {
			continue
		}
		switch a.Status {
		case dao.StatusPresent:
			st.PresentToday++
		case dao.StatusSick, dao.StatusPermit:
			st.OnLeave++
		}
	}
	st.AbsentToday = max(st.TotalInterns-st.PresentToday-st.OnLeave, 0)

	respond(w, http.StatusOK, st, msgSuccess)
}
