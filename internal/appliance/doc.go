// Package appliance implements the fixed-position slot holders of a kitchen
// and the two container pickables (plates and cooking pots).
//
// Every type here implements slot.Interactable. Appliances with internal
// progress implement slot.Ticker and are advanced by the engine once per
// frame step; none of them keep timers of their own. Rejections never
// panic: the operation returns false/nil and a negative event is published.
package appliance
