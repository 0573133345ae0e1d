package model

import (
	"strconv"
	"strings"

	"github.com/park285/cheese-fics/internal/fics/grammar"
	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/session"
)

// boardAt updates a known game from the board in group i.
func boardAt(i int) handler {
	return func(m *Model, mt match) disposition {
		m.updateKnown(mt.group(i))
		return echoGroups
	}
}

func endAt(slot, description, result int) handler {
	return func(m *Model, mt match) disposition {
		if n, err := strconv.Atoi(mt.group(slot)); err == nil {
			m.endGame(n, mt.group(result), mt.group(description))
		}
		return echoGroups
	}
}

func notify(fn func(Listener)) handler {
	return func(m *Model, _ match) disposition {
		fn(m.listener)
		return echoGroups
	}
}

func offerFrom(m *Model, mt match) disposition {
	m.listener.OnRemoveMatchOfferFrom(mt.group(1))
	return echoGroups
}

func offerTo(m *Model, mt match) disposition {
	m.listener.OnRemoveMatchOfferTo(mt.group(1))
	return echoGroups
}

func (m *Model) updateKnown(raw string) *session.Game {
	pos := m.decode(raw)
	if pos == nil {
		return nil
	}
	g := m.store.GameBySlot(pos.GameID)
	if g == nil {
		return nil
	}
	g.AddPosition(pos)
	m.listener.OnGameUpdate(g.ID)
	return g
}

// detachListed ends every game number found in list.
func (m *Model) detachListed(list, description string) {
	for _, id := range grammar.GameID.FindAllString(list, -1) {
		if n, err := strconv.Atoi(id); err == nil {
			m.endGame(n, "*", description)
		}
	}
}

func (m *Model) onMove(mt match) disposition {
	m.updateGame(m.decode(mt.group(1)))
	for _, extra := range grammar.GameInfoMoveAdditional.FindAllStringSubmatch(mt.group(2), -1) {
		m.updateGame(m.decode(extra[1]))
	}
	return silent
}

func (m *Model) onIllegalMove(mt match) disposition {
	m.updateKnown(mt.group(2))
	m.listener.OnIllegalMove()
	return echoGroups
}

func (m *Model) onCreating(mt match) disposition {
	m.createGame(m.decode(mt.group(5)), mt.group(3), mt.group(4))
	m.detachListed(mt.group(2), session.DescRemovedFromObservation)
	return echoGroups
}

func (m *Model) onObserving(mt match) disposition {
	m.createGame(m.decode(mt.group(4)), mt.group(2), mt.group(3))
	return echoGroups
}

func (m *Model) onFollowing(mt match) disposition {
	if mt.has(2) {
		m.detachListed(mt.group(2), session.DescRemovedFromObservation)
	}
	m.createGame(m.decode(mt.group(5)), mt.group(3), mt.group(4))
	return echoGroups
}

func (m *Model) onExamining(mt match) disposition {
	m.createGame(m.decode(mt.group(2)), "", "")
	return echoGroups
}

func (m *Model) onNoteMove(mt match) disposition {
	pos := m.decode(mt.group(3))
	if pos == nil {
		return echoGroups
	}
	if g := m.store.GameBySlot(pos.GameID); g != nil {
		g.AddNote(mt.group(2))
		g.AddPosition(pos)
		m.listener.OnGameUpdate(g.ID)
	}
	return echoGroups
}

func (m *Model) onNoteMoveNote(mt match) disposition {
	pos := m.decode(mt.group(3))
	if pos == nil {
		return echoGroups
	}
	g := m.store.GameBySlot(pos.GameID)
	if g == nil {
		return echoGroups
	}
	note := mt.group(5)
	g.AddNote(mt.group(2))
	g.AddPosition(pos)
	g.AddNote(note)
	if r := grammar.GameInfoNoteResult.FindStringSubmatch(note); r != nil {
		g.SetOutcome(r[2], r[1])
	}
	m.listener.OnGameUpdate(g.ID)
	return echoGroups
}

func (m *Model) onMoveNote(mt match) disposition {
	pos := m.decode(mt.group(1))
	if pos == nil {
		return echoGroups
	}
	g := m.store.GameBySlot(pos.GameID)
	if g == nil {
		m.updateGame(pos)
		return echoGroups
	}
	g.AddPosition(pos)
	g.AddNote(mt.group(3))
	if mt.has(4) {
		g.AddNote(mt.group(4))
	}
	m.listener.OnGameUpdate(g.ID)
	return echoGroups
}

// onMoveEnd finishes the game but keeps its slot: the server may still send
// boards for it until the slot is reused.
func (m *Model) onMoveEnd(mt match) disposition {
	pos := m.decode(mt.group(1))
	if pos == nil {
		return echoGroups
	}
	if g := m.store.GameBySlot(pos.GameID); g != nil {
		g.AddPosition(pos)
		g.Finish(mt.group(4), mt.group(3))
		m.listener.OnGameUpdate(g.ID)
	}
	return echoGroups
}

func (m *Model) onEndMove(mt match) disposition {
	slot, err := strconv.Atoi(mt.group(2))
	if err != nil {
		return echoGroups
	}
	g := m.store.ReleaseSlot(slot)
	if g == nil {
		return echoGroups
	}
	if pos := m.decode(mt.group(5)); pos != nil {
		g.AddPosition(pos)
	}
	g.Finish(mt.group(4), mt.group(3))
	m.listener.OnGameUpdate(g.ID)
	return echoGroups
}

func (m *Model) onSeekInfoSet(mt match) disposition {
	list := record.SeekInfoList{Op: record.SeekSet}
	for _, sg := range grammar.SeekInfoSetSeek.FindAllStringSubmatch(mt.group(1), -1) {
		if s := record.SeekFromGroups(sg); !s.Excluded() {
			list.Seeks = append(list.Seeks, s)
		}
	}
	m.store.ReplaceSeeks(list)
	m.listener.OnSeekInfoSet(list)
	return silent
}

func (m *Model) onSeekInfoSetError(match) disposition {
	m.listener.OnSeekInfoSetError()
	return silent
}

func (m *Model) onSeekInfoSeek(mt match) disposition {
	s := record.SeekFromGroups(mt.groups())
	if s.Excluded() {
		return silent
	}
	m.store.AddSeek(s)
	m.listener.OnReceivedSeek(s)
	return silent
}

func (m *Model) onSeekInfoRemove(mt match) disposition {
	m.removeSeeks(mt.group(1))
	return silent
}

func (m *Model) removeSeeks(ids string) {
	list := record.RemovedSeeks(ids)
	m.store.RemoveSeeks(list.IDs())
	m.listener.OnRemovedSeeks(list)
}

func (m *Model) onPending(mt match) disposition {
	m.listener.OnPendingInfo(record.PendingFromGroups(mt.group(1), mt.group(2)))
	return echoText
}

// onRemovingObserved also handles a <sr> line the server glues to the
// notice without a prompt in between.
func (m *Model) onRemovingObserved(mt match) disposition {
	if mt.has(2) {
		m.removeSeeks(mt.group(2))
	}
	m.detachListed(mt.group(1), session.DescRemovedFromObservation)
	return echoGroups
}

func (m *Model) onCommandNotFound(mt match) disposition {
	if m.cfg.PingToken != "" && mt.group(1) == m.cfg.PingToken {
		return silent
	}
	return echoText
}

func (m *Model) onRemovingExamined(mt match) disposition {
	if n, err := strconv.Atoi(mt.group(1)); err == nil {
		m.endGame(n, "*", session.DescNoLongerExamining)
	}
	return echoGroups
}

func (m *Model) onNote(mt match) disposition {
	n, err := strconv.Atoi(mt.group(1))
	if err != nil {
		return echoGroups
	}
	if g := m.store.GameBySlot(n); g != nil {
		g.AddNote(mt.group(2))
		m.listener.OnGameUpdate(g.ID)
	}
	return echoGroups
}

func (m *Model) onNoteEnd(mt match) disposition {
	n, err := strconv.Atoi(mt.group(2))
	if err != nil {
		return echoGroups
	}
	if g := m.store.ReleaseSlot(n); g != nil {
		g.AddNote(mt.group(1))
		g.Finish(mt.group(4), mt.group(3))
		m.listener.OnGameUpdate(g.ID)
	}
	return echoGroups
}

func (m *Model) onDrawOffer(mt match) disposition {
	m.listener.OnDrawOffer(mt.group(1))
	return echoGroups
}

func (m *Model) onAbortRequest(mt match) disposition {
	m.listener.OnAbortRequest(mt.group(1))
	return echoGroups
}

func (m *Model) onPrivateTell(mt match) disposition {
	m.communicate(record.NewPrivateTell(mt.group(1), mt.group(2)))
	return echoGroups
}

func (m *Model) onSay(mt match) disposition {
	m.communicate(record.NewSay(mt.group(1), mt.group(2)))
	return echoGroups
}

func (m *Model) onPartnerTell(mt match) disposition {
	m.communicate(record.NewPartnerTell(mt.group(1), mt.group(2)))
	return echoGroups
}

func (m *Model) onChannelTell(mt match) disposition {
	m.communicate(record.NewChannelTell(mt.group(2), mt.group(1), mt.group(3)))
	return echoGroups
}

func (m *Model) onShout(mt match) disposition {
	m.communicate(record.NewShout(mt.group(1), mt.group(2)))
	return echoGroups
}

func (m *Model) onShoutIt(mt match) disposition {
	m.communicate(record.NewShoutIt(mt.group(1), mt.group(2)))
	return echoGroups
}

func (m *Model) onChessShout(mt match) disposition {
	m.communicate(record.NewChessShout(mt.group(1), mt.group(2)))
	return echoGroups
}

func (m *Model) onAnnouncement(mt match) disposition {
	m.communicate(record.NewAnnouncement(mt.group(1), mt.group(2)))
	return echoGroups
}

// onKibitzWhisper attaches the line to the game it was said in; it is not
// a conversation of its own.
func (m *Model) onKibitzWhisper(mt match) disposition {
	gameID := mt.group(3)
	var c record.Communication
	if mt.group(4) == grammar.KibitzVerb {
		c = record.NewKibitz(gameID, mt.group(1), mt.group(5))
	} else {
		c = record.NewWhisper(gameID, mt.group(1), mt.group(5))
	}
	n, err := strconv.Atoi(gameID)
	if err != nil {
		return echoGroups
	}
	if g := m.store.GameBySlot(n); g != nil {
		g.AddCommunication(c)
		m.listener.OnGameUpdate(g.ID)
	}
	return echoGroups
}

const channelList = "channel"

func (m *Model) onListShow(mt match) disposition {
	if mt.group(1) != channelList {
		return echoGroups
	}
	for _, entry := range grammar.ListInfoShowEntry.FindAllString(mt.group(2), -1) {
		m.store.EnsureConversation(entry)
	}
	return echoGroups
}

func (m *Model) onListAdd(mt match) disposition {
	if mt.group(2) == channelList {
		m.store.EnsureConversation(mt.group(1))
	}
	return echoGroups
}

func (m *Model) onListSub(mt match) disposition {
	if mt.group(2) == channelList {
		m.store.DropConversation(mt.group(1))
	}
	return echoGroups
}

// onFinger swallows the first lookup of the probe account and never reports
// it as a finger event.
func (m *Model) onFinger(mt match) disposition {
	info := record.FingerFromGroups(mt.groups())
	if m.cfg.ProbeHandle == "" || !strings.EqualFold(info.Handle, m.cfg.ProbeHandle) {
		m.listener.OnFinger(info)
		return echoText
	}
	m.checkVersion(info)
	if !m.probed {
		m.probed = true
		return silent
	}
	return echoText
}

// versionNote is the finger note carrying the release banner.
const versionNote = 9

// checkVersion reads "platform|v1|v2...#platform|..." from the banner note.
func (m *Model) checkVersion(info record.FingerInfo) {
	if info.NoteCount() <= versionNote {
		return
	}
	for _, setting := range strings.Split(info.Note(versionNote), "#") {
		values := strings.Split(setting, "|")
		if !strings.EqualFold(strings.TrimSpace(values[0]), m.cfg.ProbePlatform) {
			continue
		}
		if m.cfg.ProbeIndex <= 0 || m.cfg.ProbeIndex >= len(values) {
			continue
		}
		newest, err := strconv.Atoi(strings.TrimSpace(values[m.cfg.ProbeIndex]))
		if err != nil {
			continue
		}
		m.versionOld = newest > m.currentVersion
	}
}

func (m *Model) onVariables(mt match) disposition {
	m.listener.OnVariables(record.VariablesFromGroups(mt.groups()))
	return echoGroups
}

func (m *Model) onHistory(mt match) disposition {
	m.listener.OnHistory(record.HistoryFromGroups(mt.group(1), mt.group(2)))
	return echoGroups
}

func (m *Model) onJournal(mt match) disposition {
	m.listener.OnJournal(record.JournalFromGroups(mt.group(1), mt.group(2)))
	return echoGroups
}

func (m *Model) onAdjourned(mt match) disposition {
	m.listener.OnAdjourned(record.AdjournedFromGroups(mt.group(1), mt.group(2)))
	return echoGroups
}

func (m *Model) onNoHistory(mt match) disposition {
	m.listener.OnNoHistory(mt.group(1))
	return echoGroups
}

func (m *Model) onNoJournal(mt match) disposition {
	m.listener.OnNoJournal(mt.group(1))
	return echoGroups
}

func (m *Model) onNoAdjourned(mt match) disposition {
	m.listener.OnNoAdjourned(mt.group(1))
	return echoGroups
}

func (m *Model) onInchannel(mt match) disposition {
	m.listener.OnInchannelInfo(record.InchannelFromGroups(mt.group(1), mt.group(2), mt.group(3)))
	return echoGroups
}

func (m *Model) onHandlePrefix(mt match) disposition {
	m.listener.OnHandlePrefix(grammar.ListInfoShowEntry.FindAllString(mt.group(1), -1))
	return echoGroups
}

func (m *Model) onWho(mt match) disposition {
	var handles []string
	for _, w := range grammar.WhoIbslwbslxLine.FindAllStringSubmatch(mt.text, -1) {
		handles = append(handles, w[1])
	}
	m.listener.OnWhoIbslwbslx(handles)
	return echoGroups
}

func (m *Model) onNotLoggedIn(mt match) disposition {
	m.listener.OnNotLoggedIn(mt.group(1))
	return echoGroups
}

func (m *Model) onMotd(mt match) disposition {
	m.welcome = record.WelcomeFromMatch(mt.groups())
	m.listener.OnMotdExtended(m.welcome)
	return echoGroups
}

func (m *Model) onNews(mt match) disposition {
	m.listener.OnNews(record.NewsItemsFrom(mt.text))
	return echoGroups
}

func (m *Model) onNewsDetails(mt match) disposition {
	m.listener.OnNewsDetails(record.NewsDetailsFromGroups(mt.groups()))
	return echoGroups
}

func (m *Model) onMessages(mt match) disposition {
	m.listener.OnMessages(record.MessagesFrom(mt.text))
	return echoGroups
}
