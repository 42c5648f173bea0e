package browser

// ownerAttribute marks the overlay host node; hit testing skips everything under it
const ownerAttribute = "data-element-grab"

// emitBinding is the function playwright exposes to the page for pushing events
const emitBinding = "__elementGrabEmit"

// pageScript installs window.__elementGrab: event capture, hit testing, the overlay
// and element descriptions. Nodes are kept in a WeakMap keyed by node and resolved
// through WeakRefs, so ids never keep a removed node alive. It is idempotent.
const pageScript = `(() => {
  if (window.__elementGrab) return;

  const ATTRIBUTE = "data-element-grab";
  const doc = Math.random().toString(36).slice(2);
  const ids = new WeakMap();
  const nodes = new Map();
  let nextId = 0;
  let mode = "hidden";

  const idOf = (el) => {
    let id = ids.get(el);
    if (!id) {
      nextId += 1;
      id = "eg-" + nextId;
      ids.set(el, id);
      nodes.set(id, new WeakRef(el));
    }
    return id;
  };

  const lookup = (id) => {
    const ref = nodes.get(id);
    const el = ref && ref.deref();
    if (!el || !el.isConnected) {
      nodes.delete(id);
      return null;
    }
    return el;
  };

  // Events are pushed through the exposed binding in numbered batches, or queued
  // for drain() when no binding exists.
  const queue = [];
  let batch = [];
  let seq = 0;
  let flushScheduled = false;

  const flush = () => {
    flushScheduled = false;
    if (batch.length === 0) return;
    const events = batch;
    batch = [];
    seq += 1;
    window.__elementGrabEmit({ doc, seq, events });
  };

  const emit = (event) => {
    if (typeof window.__elementGrabEmit === "function") {
      batch.push(event);
      if (!flushScheduled) {
        flushScheduled = true;
        queueMicrotask(flush);
      }
      return;
    }
    queue.push(event);
    if (queue.length > 1000) queue.shift();
  };

  const targetInfo = (node) => {
    if (!node || !node.tagName) return null;
    return { tag: node.tagName, role: (node.getAttribute && node.getAttribute("role")) || "" };
  };

  const keyPayload = (e) => {
    const path = e.composedPath ? e.composedPath() : [];
    return {
      key: e.key,
      code: e.code === undefined ? "" : e.code,
      noCode: e.code === undefined,
      target: targetInfo(e.target),
      composed: !!e.composed,
      pathTarget: targetInfo(path[0]),
    };
  };

  const mousePayload = (e) => ({ x: e.clientX, y: e.clientY, button: e.button });

  const suppress = (e) => {
    e.preventDefault();
    e.stopPropagation();
    e.stopImmediatePropagation();
  };

  window.addEventListener("keydown", (e) => emit({ type: "keydown", key: keyPayload(e) }), true);
  window.addEventListener("keyup", (e) => emit({ type: "keyup", key: keyPayload(e) }), true);
  window.addEventListener("blur", () => emit({ type: "blur" }));
  window.addEventListener("contextmenu", () => emit({ type: "contextmenu" }), true);

  let pendingMove = null;
  window.addEventListener("mousemove", (e) => {
    const first = pendingMove === null;
    pendingMove = mousePayload(e);
    if (!first) return;
    requestAnimationFrame(() => {
      emit({ type: "mousemove", mouse: pendingMove });
      pendingMove = null;
    });
  });

  window.addEventListener("mousedown", (e) => {
    if (e.button === 0 && mode !== "hidden") suppress(e);
    emit({ type: "mousedown", mouse: mousePayload(e) });
  }, true);
  window.addEventListener("click", (e) => {
    if (mode !== "hidden") suppress(e);
    emit({ type: "click", mouse: mousePayload(e) });
  }, true);
  window.addEventListener("scroll", () => emit({ type: "scroll" }), true);
  window.addEventListener("resize", () => emit({ type: "resize" }));
  document.addEventListener("visibilitychange", () => emit({ type: "visibilitychange", hidden: document.hidden }));

  let root = null;
  const mount = () => {
    if (root && root.host.isConnected) return root;
    const host = document.createElement("div");
    host.setAttribute(ATTRIBUTE, "");
    host.style.cssText = "position:fixed;inset:0;pointer-events:none;z-index:2147483647";
    root = host.attachShadow({ mode: "open" });
    (document.body || document.documentElement).appendChild(host);
    return root;
  };

  const part = (name) => {
    const r = mount();
    let el = r.querySelector('[data-part="' + name + '"]');
    if (!el) {
      el = document.createElement("div");
      el.dataset.part = name;
      el.style.position = "fixed";
      el.style.pointerEvents = "none";
      el.style.display = "none";
      r.appendChild(el);
    }
    return el;
  };

  const place = (el, g) => {
    el.style.left = g.x + "px";
    el.style.top = g.y + "px";
    el.style.width = g.width + "px";
    el.style.height = g.height + "px";
    el.style.borderRadius = g.borderRadius || "0px";
    el.style.transform = g.transform || "none";
  };

  const pill = (el) => {
    el.style.padding = "2px 6px";
    el.style.borderRadius = "4px";
    el.style.font = "11px ui-monospace, SFMono-Regular, Menlo, monospace";
    el.style.color = "#fff";
    el.style.background = "rgb(210, 57, 192)";
    el.style.whiteSpace = "nowrap";
  };

  const VIEWPORT_MARGIN_PX = 8;
  const LABEL_OFFSET_PX = 6;
  const CLAMPED_PADDING_PX = 4;

  // placePill puts a pill above (x, y) and keeps it inside the viewport
  const placePill = (el, x, y) => {
    const rect = el.getBoundingClientRect();
    let left = Math.round(x);
    let top = Math.round(y) - rect.height - LABEL_OFFSET_PX;
    const clamped = left < VIEWPORT_MARGIN_PX || top < VIEWPORT_MARGIN_PX;
    const maxLeft = window.innerWidth - rect.width - VIEWPORT_MARGIN_PX;
    const maxTop = window.innerHeight - rect.height - VIEWPORT_MARGIN_PX;
    left = Math.max(VIEWPORT_MARGIN_PX, Math.min(left, maxLeft));
    top = Math.max(VIEWPORT_MARGIN_PX, Math.min(top, maxTop));
    if (clamped) {
      left += CLAMPED_PADDING_PX;
      top += CLAMPED_PADDING_PX;
    }
    el.style.left = left + "px";
    el.style.top = top + "px";
  };

  const indicators = new Map();

  const snippet = (el) => {
    const tag = el.tagName.toLowerCase();
    const attrs = Array.from(el.attributes)
      .filter((a) => a.name !== ATTRIBUTE)
      .map((a) => " " + a.name + '="' + a.value.replace(/"/g, "&quot;") + '"')
      .join("");
    let text = (el.textContent || "").trim().replace(/\s+/g, " ");
    if (text.length > 120) text = text.slice(0, 120) + "…";
    const path = [];
    for (let node = el.parentElement; node && path.length < 4; node = node.parentElement) {
      path.unshift(node.tagName.toLowerCase());
    }
    const open = "<" + tag + attrs + ">";
    const body = el.children.length > 0 ? "\n  " + text + "\n" : text;
    return (path.length ? "<!-- " + path.join(" > ") + " -->\n" : "") + open + body + "</" + tag + ">";
  };

  window.__elementGrab = {
    doc,

    elementsFromPoint(x, y) {
      return document.elementsFromPoint(x, y).map((el) => {
        const rect = el.getBoundingClientRect();
        const s = window.getComputedStyle(el);
        return {
          id: idOf(el),
          tag: el.tagName,
          rect: { x: rect.left, y: rect.top, width: rect.width, height: rect.height },
          style: {
            display: s.display,
            visibility: s.visibility,
            opacity: s.opacity,
            pointerEvents: s.pointerEvents,
            borderRadius: s.borderRadius,
            transform: s.transform,
          },
          disabled: !!el.disabled,
          owned: !!el.closest("[" + ATTRIBUTE + "]"),
        };
      });
    },

    drawSelection(sel) {
      const el = part("selection");
      el.style.border = "1px solid rgb(210, 57, 192)";
      el.style.background = "rgba(210, 57, 192, 0.2)";
      place(el, sel.geometry);
      el.style.pointerEvents = sel.interactive ? "auto" : "none";
      el.style.display = sel.visible ? "block" : "none";
    },

    drawLabel(label) {
      const el = part("label");
      pill(el);
      el.textContent = label.text;
      el.style.display = label.visible ? "block" : "none";
      if (label.visible) placePill(el, label.x, label.y);
    },

    drawProgress(p) {
      const el = part("progress");
      el.style.left = p.x + 12 + "px";
      el.style.top = p.y + 12 + "px";
      el.style.width = "40px";
      el.style.height = "4px";
      el.style.borderRadius = "2px";
      el.style.background = "linear-gradient(to right, rgb(210, 57, 192) " + Math.round(p.value * 100) + "%, rgba(0,0,0,0.2) 0)";
      el.style.display = p.visible ? "block" : "none";
    },

    drawIndicator(ind) {
      let el = indicators.get(ind.id);
      if (ind.kind === "removed") {
        if (el) el.remove();
        indicators.delete(ind.id);
        return;
      }
      if (!el) {
        el = document.createElement("div");
        el.style.position = "fixed";
        el.style.pointerEvents = "none";
        el.style.transition = "opacity 0.2s ease-out";
        mount().appendChild(el);
        indicators.set(ind.id, el);
      }
      if (ind.kind === "grabbed") {
        el.style.border = "1px solid rgb(210, 57, 192)";
        el.style.background = "rgba(210, 57, 192, 0.2)";
        el.style.transition = "opacity 0.3s ease-out";
        place(el, ind.geometry);
        requestAnimationFrame(() => { el.style.opacity = "0"; });
        return;
      }
      pill(el);
      el.textContent = ind.text;
      placePill(el, ind.geometry.x, ind.geometry.y);
      el.style.opacity = ind.kind === "fading" ? "0" : "1";
    },

    setMode(next) {
      mode = next;
    },

    describe(id) {
      const el = lookup(id);
      if (!el) throw new Error("element " + id + " is no longer attached");
      return snippet(el);
    },

    copyText(text) {
      if (navigator.clipboard && window.isSecureContext) {
        return navigator.clipboard.writeText(text).then(() => true, () => false);
      }
      const area = document.createElement("textarea");
      area.value = text;
      area.setAttribute(ATTRIBUTE, "");
      area.style.cssText = "position:fixed;left:-9999px;top:0";
      document.documentElement.appendChild(area);
      area.select();
      let ok = false;
      try {
        ok = document.execCommand("copy");
      } finally {
        area.remove();
      }
      return ok;
    },

    openURL(url) {
      window.open(url, "_blank");
      return true;
    },

    drain() {
      return { doc, seq: 0, events: queue.splice(0, queue.length) };
    },
  };
})();`
