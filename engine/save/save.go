// Package save writes a running game to disk and reads it back.
//
// A save is a directory holding three files: world.json (every room and
// what it contains), player.json (the player and their belongings) and
// game.txt (mode, current room, previous room, time and the RNG state, one
// per line).
package save

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/nathoo/serpens/engine/dialogue"
	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/events"
	"github.com/nathoo/serpens/engine/world"
)

// File names inside a save directory.
const (
	WorldFile  = "world.json"
	PlayerFile = "player.json"
	GameFile   = "game.txt"
)

// ErrNoSave is returned when a save directory holds no game.
var ErrNoSave = errors.New("no such save")

// CorruptError reports a save file that exists but cannot be used.
type CorruptError struct {
	File string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("save file %s is corrupt: %v", e.File, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

type worldRecord struct {
	Class  string                 `json:"__class__"`
	Rooms  map[string]*RoomRecord `json:"rooms"`
	Events *events.Set            `json:"events,omitempty"`
}

// Save writes w into dir, creating it if needed.
func Save(w *world.World, dir string) error {
	if w.Player == nil {
		return errors.New("save: the world has no player")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	wr := worldRecord{Class: "World", Rooms: map[string]*RoomRecord{}, Events: w.Game.Events}
	for _, key := range w.RoomKeys() {
		wr.Rooms[key] = EncodeRoom(w.Rooms[key], w.Player)
	}
	if err := writeJSON(filepath.Join(dir, WorldFile), wr); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, PlayerFile), EncodeThing(w.Player)); err != nil {
		return err
	}

	g := w.Game
	header := fmt.Sprintf("%s\n%s\n%s\n%d\n%d %d\n", g.Mode, g.Current, g.Previous, g.Time,
		w.RNG.Seed(), w.RNG.Position())
	if err := os.WriteFile(filepath.Join(dir, GameFile), []byte(header), 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	w.Logger.Info("game saved",
		zap.String("dir", dir),
		zap.Int("rooms", len(wr.Rooms)),
		zap.Int("objects", w.Registry.Len()),
	)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrNoSave)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &CorruptError{File: filepath.Base(path), Err: err}
	}
	return nil
}

type header struct {
	mode, current, previous string
	time                    int
	rng                     *dice.RNG
}

// readHeader parses game.txt. A file without the RNG line gets a fresh
// time-seeded RNG.
func readHeader(path string) (header, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return header{}, ErrNoSave
	}
	if err != nil {
		return header{}, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return header{}, err
	}
	corrupt := func(format string, args ...any) error {
		return &CorruptError{File: GameFile, Err: fmt.Errorf(format, args...)}
	}
	if len(lines) < 4 {
		return header{}, corrupt("want at least 4 lines, got %d", len(lines))
	}
	h := header{mode: lines[0], current: lines[1], previous: lines[2]}
	if h.time, err = strconv.Atoi(lines[3]); err != nil {
		return header{}, corrupt("time %q: %w", lines[3], err)
	}
	if len(lines) > 4 && lines[4] != "" {
		var seed, pos int64
		if _, err := fmt.Sscanf(lines[4], "%d %d", &seed, &pos); err != nil {
			return header{}, corrupt("rng %q: %w", lines[4], err)
		}
		h.rng = dice.RestoreRNG(seed, pos)
	} else {
		h.rng = dice.NewRNG(time.Now().UnixNano())
	}
	return h, nil
}

// Load reads the game saved in dir. The loaded world is checked for
// dialogue integrity and model invariants before it is returned.
func Load(dir string) (*world.World, error) {
	h, err := readHeader(filepath.Join(dir, GameFile))
	if err != nil {
		return nil, err
	}
	w := world.New(h.rng)
	w.Game.Mode = h.mode
	w.Game.Current = strings.ToLower(h.current)
	w.Game.Previous = strings.ToLower(h.previous)
	w.Game.Time = h.time

	var wr worldRecord
	if err := readJSON(filepath.Join(dir, WorldFile), &wr); err != nil {
		return nil, err
	}
	if wr.Events != nil {
		w.Game.Events = wr.Events
	}
	keys := slices.Sorted(maps.Keys(wr.Rooms))
	for _, key := range keys {
		if err := w.AddRoom(DecodeRoom(wr.Rooms[key])); err != nil {
			return nil, &CorruptError{File: WorldFile, Err: err}
		}
	}
	for _, key := range keys {
		room, _ := w.Room(key)
		if err := BuildRoom(w, room, wr.Rooms[key]); err != nil {
			return nil, &CorruptError{File: WorldFile, Err: err}
		}
	}

	var pr Record
	if err := readJSON(filepath.Join(dir, PlayerFile), &pr); err != nil {
		return nil, err
	}
	here, ok := w.Room(w.Game.Current)
	if !ok {
		return nil, &CorruptError{File: GameFile, Err: fmt.Errorf("unknown current room %q", h.current)}
	}
	t, err := Build(w, &pr, here)
	if err != nil {
		return nil, &CorruptError{File: PlayerFile, Err: err}
	}
	p, ok := t.(*world.Player)
	if !ok {
		return nil, &CorruptError{File: PlayerFile, Err: fmt.Errorf("player record is a %s", t.Class())}
	}
	w.Player = p

	if err := w.Relink(); err != nil {
		return nil, &CorruptError{File: WorldFile, Err: err}
	}
	if err := checkDialogue(w); err != nil {
		return nil, &CorruptError{File: WorldFile, Err: err}
	}
	if errs := world.CheckInvariants(w); len(errs) > 0 {
		return nil, &CorruptError{File: WorldFile, Err: errors.Join(errs...)}
	}
	return w, nil
}

func checkDialogue(w *world.World) error {
	var errs []error
	for _, t := range w.Registry.All() {
		p, ok := t.(*world.Person)
		if !ok || p.Tree == nil {
			continue
		}
		if err := dialogue.Check(p.Name, p.Tree, world.Dict().HasTrite); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
