package game

import (
	"github.com/plus3/alien-defense/ecs"
)

// ShipControlSystem applies held movement keys and fires bullets.
type ShipControlSystem struct {
	Ships ecs.Query[struct {
		*Position
		*Body
		*Ship
	}]
	Bullets  ecs.Query[struct{ *Bullet }]
	Session  ecs.Singleton[Session]
	Controls ecs.Singleton[Controls]
	Cues     ecs.Singleton[Cues]

	Rules *Rules
}

func (s *ShipControlSystem) Execute(frame *ecs.UpdateFrame) {
	controls := s.Controls.Get()
	playing := s.Session.Get().Phase == PhasePlaying

	ship, ok := s.Ships.First()
	if !ok {
		return
	}
	ship.Ship.MovingUp = playing && controls.Up
	ship.Ship.MovingDown = playing && controls.Down

	if !playing || !controls.Fire || s.Bullets.Len() >= s.Rules.Settings.BulletsAllowed {
		return
	}

	cfg := s.Rules.Settings
	shipRect := Rect(*ship.Position, *ship.Body)
	frame.Commands.Spawn(
		Position{
			X: float64(shipRect.Max.X),
			Y: float64(shipRect.Min.Y + ship.Body.H/2 - cfg.BulletHeight/2),
		},
		Body{W: cfg.BulletWidth, H: cfg.BulletHeight},
		Velocity{DX: cfg.BulletSpeed},
		Bullet{},
	)
	s.Cues.Get().Push(CueLaser)
}

// ShipMovementSystem moves the ship vertically, holding it inside the screen.
type ShipMovementSystem struct {
	Ships ecs.Query[struct {
		*Position
		*Body
		*Ship
	}]
	Session ecs.Singleton[Session]

	Rules *Rules
}

func (s *ShipMovementSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Session.Get().Phase != PhasePlaying {
		return
	}
	height := s.Rules.Settings.ScreenHeight
	speed := s.Rules.Settings.ShipSpeed

	for ship := range s.Ships.Iter() {
		rect := Rect(*ship.Position, *ship.Body)
		if ship.Ship.MovingUp && rect.Min.Y > 0 {
			ship.Position.Y -= speed
		}
		if ship.Ship.MovingDown && rect.Max.Y < height {
			ship.Position.Y += speed
		}
		ship.Position.Y = max(0, min(ship.Position.Y, float64(height-ship.Body.H)))
	}
}

// AlienSpawnSystem rolls once per playing frame for a new alien at the right edge.
type AlienSpawnSystem struct {
	Session ecs.Singleton[Session]

	Rules *Rules
}

func (s *AlienSpawnSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Session.Get().Phase != PhasePlaying {
		return
	}
	cfg := s.Rules.Settings
	if s.Rules.Rand.Float64() >= cfg.AlienFrequency {
		return
	}

	size := s.Rules.Sizes.Alien
	top := s.Rules.Rand.IntN(max(cfg.ScreenHeight-size.Y, 0) + 1)
	frame.Commands.Spawn(
		Position{X: float64(cfg.ScreenWidth), Y: float64(top)},
		Body{W: size.X, H: size.Y},
		Velocity{DX: -cfg.AlienSpeed},
		Alien{},
	)
}

// MovementSystem advances bullets and aliens. Alien velocity is scaled by the
// session speed factor.
type MovementSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Velocity
		Alien *Alien `ecs:"optional"`
	}]
	Session ecs.Singleton[Session]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Phase != PhasePlaying {
		return
	}
	for m := range s.Movers.Iter() {
		factor := 1.0
		if m.Alien != nil {
			factor = session.SpeedFactor
		}
		m.Position.X += m.Velocity.DX * factor
		m.Position.Y += m.Velocity.DY * factor
	}
}

type bulletRow struct {
	Id ecs.EntityId
	*Position
	*Body
	*Bullet
}

type alienRow struct {
	Id ecs.EntityId
	*Position
	*Body
	*Alien
}

// BulletCollisionSystem culls bullets past the right edge, then resolves
// bullet/alien hits oldest bullet first. A bullet destroys at most one alien.
type BulletCollisionSystem struct {
	Bullets ecs.Query[bulletRow]
	Aliens  ecs.Query[alienRow]
	Session ecs.Singleton[Session]
	Cues    ecs.Singleton[Cues]

	Rules *Rules
}

func (s *BulletCollisionSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Phase != PhasePlaying {
		return
	}
	width := s.Rules.Settings.ScreenWidth

	for bullet := range s.Bullets.Iter() {
		if Rect(*bullet.Position, *bullet.Body).Min.X >= width {
			frame.Commands.Delete(bullet.Id)
		}
	}

	for bullet := range s.Bullets.Iter() {
		if frame.Commands.Deleted(bullet.Id) {
			continue
		}
		bulletRect := Rect(*bullet.Position, *bullet.Body)
		for alien := range s.Aliens.Iter() {
			if frame.Commands.Deleted(alien.Id) {
				continue
			}
			if !bulletRect.Overlaps(Rect(*alien.Position, *alien.Body)) {
				continue
			}
			frame.Commands.Delete(bullet.Id)
			frame.Commands.Delete(alien.Id)
			s.Rules.alienDestroyed(session, s.Cues.Get())
			break
		}
	}
}

// ShipCollisionSystem removes every alien touching the ship, one life each.
type ShipCollisionSystem struct {
	Ships ecs.Query[struct {
		*Position
		*Body
		*Ship
	}]
	Aliens  ecs.Query[alienRow]
	Session ecs.Singleton[Session]
	Cues    ecs.Singleton[Cues]

	Rules *Rules
}

func (s *ShipCollisionSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Phase != PhasePlaying {
		return
	}
	ship, ok := s.Ships.First()
	if !ok {
		return
	}
	shipRect := Rect(*ship.Position, *ship.Body)

	for alien := range s.Aliens.Iter() {
		if frame.Commands.Deleted(alien.Id) || !shipRect.Overlaps(Rect(*alien.Position, *alien.Body)) {
			continue
		}
		frame.Commands.Delete(alien.Id)
		if !s.Rules.loseLife(session, s.Cues.Get()) {
			return
		}
	}
}

// LeftEdgeSystem removes aliens whose x went negative, one life each.
type LeftEdgeSystem struct {
	Aliens  ecs.Query[alienRow]
	Session ecs.Singleton[Session]
	Cues    ecs.Singleton[Cues]

	Rules *Rules
}

func (s *LeftEdgeSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Phase != PhasePlaying {
		return
	}
	for alien := range s.Aliens.Iter() {
		if frame.Commands.Deleted(alien.Id) || alien.Position.X >= 0 {
			continue
		}
		frame.Commands.Delete(alien.Id)
		if !s.Rules.loseLife(session, s.Cues.Get()) {
			return
		}
	}
}

// StarfieldSystem scrolls the decorations left while playing and wraps them
// past the right edge.
type StarfieldSystem struct {
	Stars ecs.Query[struct {
		*Position
		*Star
	}]
	Session ecs.Singleton[Session]

	Rules *Rules
}

func (s *StarfieldSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Session.Get().Phase != PhasePlaying {
		return
	}
	cfg := s.Rules.Settings
	for star := range s.Stars.Iter() {
		star.Position.X -= cfg.StarSpeed
		if star.Position.X < 0 {
			star.Position.X = float64(cfg.ScreenWidth + s.Rules.Rand.IntN(cfg.StarWrapMargin+1))
		}
	}
}

// RestartSystem starts a round from the menu or game-over screen on the
// restart key or a click on the play button. It runs last so the new round
// begins on a cleared board next frame.
type RestartSystem struct {
	Ships ecs.Query[struct {
		*Position
		*Ship
	}]
	Bullets  ecs.Query[bulletRow]
	Aliens   ecs.Query[alienRow]
	Session  ecs.Singleton[Session]
	Controls ecs.Singleton[Controls]
	Cues     ecs.Singleton[Cues]

	Rules *Rules
}

func (s *RestartSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Phase == PhasePlaying {
		return
	}
	controls := s.Controls.Get()
	clicked := controls.Click && controls.ClickAt.In(s.Rules.Settings.PlayButton())
	if !controls.Restart && !clicked {
		return
	}

	for bullet := range s.Bullets.Iter() {
		frame.Commands.Delete(bullet.Id)
	}
	for alien := range s.Aliens.Iter() {
		frame.Commands.Delete(alien.Id)
	}
	for ship := range s.Ships.Iter() {
		*ship.Position = s.Rules.ShipStart()
		*ship.Ship = Ship{}
	}
	s.Rules.startRound(session, s.Cues.Get())
}
