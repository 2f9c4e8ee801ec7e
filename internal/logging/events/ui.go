package events

import "github.com/atomicstack/cmdlib/internal/logging"

type UITracer struct{}

type SearchTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Search  = SearchTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) Cursor(cursor int, kind string) {
	logging.Trace("list.cursor", map[string]interface{}{"cursor": cursor, "kind": kind})
}

func (UITracer) LinkFocus(cursor, link int, target string) {
	logging.Trace("list.link", map[string]interface{}{"cursor": cursor, "link": link, "target": target})
}

func (UITracer) Mode(mode string) {
	logging.Trace("ui.mode", map[string]interface{}{"mode": mode})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (SearchTracer) Cleared() {
	logging.Trace("search.clear", nil)
}

func (SearchTracer) WordBackspace(query string) {
	logging.Trace("search.word-backspace", map[string]interface{}{"query": query})
}

func (SearchTracer) Cursor(pos int) {
	logging.Trace("search.cursor", map[string]interface{}{"cursor": pos})
}

func (SearchTracer) Append(query string) {
	logging.Trace("search.append", map[string]interface{}{"query": query})
}

func (SearchTracer) Backspace(query string) {
	logging.Trace("search.backspace", map[string]interface{}{"query": query})
}

func (SearchTracer) Jump(query string, cursor int) {
	logging.Trace("search.jump", map[string]interface{}{"query": query, "cursor": cursor})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
