// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package renderer

// WGSL sources for the render pipelines. All colors entering these
// shaders are premultiplied; blending is One / OneMinusSrcAlpha.

const quadWGSL = `
struct Globals {
    resolution: vec2<f32>,
    _pad: vec2<f32>,
}

@group(0) @binding(0) var<uniform> globals: Globals;

struct QuadIn {
    @builtin(vertex_index) index: u32,
    @location(0) pos: vec2<f32>,
    @location(1) size: vec2<f32>,
    @location(2) color_tl: vec4<f32>,
    @location(3) color_tr: vec4<f32>,
    @location(4) color_br: vec4<f32>,
    @location(5) color_bl: vec4<f32>,
    @location(6) border_color: vec4<f32>,
    @location(7) border_radius: vec4<f32>,
    @location(8) border_width: f32,
}

struct QuadOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) local: vec2<f32>,
    @location(1) half_size: vec2<f32>,
    @location(2) color: vec4<f32>,
    @location(3) border_color: vec4<f32>,
    @location(4) border_radius: vec4<f32>,
    @location(5) border_width: f32,
}

@vertex
fn vs_main(in: QuadIn) -> QuadOut {
    // Triangle-strip unit quad: (0,0) (1,0) (0,1) (1,1).
    let corner = vec2<f32>(f32(in.index & 1u), f32(in.index >> 1u));
    let world = in.pos + corner * in.size;

    let colors = array<vec4<f32>, 4>(
        in.color_tl, in.color_tr, in.color_bl, in.color_br,
    );

    var out: QuadOut;
    out.clip = vec4<f32>(
        (world / globals.resolution * 2.0 - 1.0) * vec2<f32>(1.0, -1.0),
        0.0, 1.0,
    );
    out.local = (corner - 0.5) * in.size;
    out.half_size = in.size * 0.5;
    out.color = colors[(in.index >> 1u) * 2u + (in.index & 1u)];
    out.border_color = in.border_color;
    out.border_radius = in.border_radius;
    out.border_width = in.border_width;
    return out;
}

fn rounded_box(p: vec2<f32>, half: vec2<f32>, r: f32) -> f32 {
    let q = abs(p) - half + vec2<f32>(r);
    return length(max(q, vec2<f32>(0.0))) + min(max(q.x, q.y), 0.0) - r;
}

@fragment
fn fs_main(in: QuadOut) -> @location(0) vec4<f32> {
    // Corner radii are clockwise from the top-left; pick by quadrant.
    var r: f32;
    if (in.local.x < 0.0) {
        r = select(in.border_radius.x, in.border_radius.w, in.local.y >= 0.0);
    } else {
        r = select(in.border_radius.y, in.border_radius.z, in.local.y >= 0.0);
    }

    let d = rounded_box(in.local, in.half_size, r);
    var color = in.color;
    if (in.border_width > 0.0) {
        let border = smoothstep(-0.7, 0.7, d + in.border_width);
        color = mix(color, in.border_color, border);
    }
    let coverage = 1.0 - smoothstep(-0.7, 0.7, d);
    return color * coverage;
}
`

const meshWGSL = `
struct Globals {
    resolution: vec2<f32>,
    _pad: vec2<f32>,
}

@group(0) @binding(0) var<uniform> globals: Globals;

struct MeshIn {
    @location(0) pos: vec2<f32>,
    @location(1) color: vec4<f32>,
}

struct MeshOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(in: MeshIn) -> MeshOut {
    var out: MeshOut;
    out.clip = vec4<f32>(
        (in.pos / globals.resolution * 2.0 - 1.0) * vec2<f32>(1.0, -1.0),
        0.0, 1.0,
    );
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: MeshOut) -> @location(0) vec4<f32> {
    return in.color;
}
`

const textWGSL = `
struct Globals {
    resolution: vec2<f32>,
    _pad: vec2<f32>,
}

@group(0) @binding(0) var<uniform> globals: Globals;
@group(1) @binding(0) var atlas_texture: texture_2d<f32>;
@group(1) @binding(1) var atlas_sampler: sampler;

struct TexIn {
    @location(0) pos: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) color: vec4<f32>,
}

struct TexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@vertex
fn vs_main(in: TexIn) -> TexOut {
    var out: TexOut;
    out.clip = vec4<f32>(
        (in.pos / globals.resolution * 2.0 - 1.0) * vec2<f32>(1.0, -1.0),
        0.0, 1.0,
    );
    out.uv = in.uv;
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: TexOut) -> @location(0) vec4<f32> {
    let alpha = textureSample(atlas_texture, atlas_sampler, in.uv).r;
    return in.color * alpha;
}
`

const imageWGSL = `
struct Globals {
    resolution: vec2<f32>,
    _pad: vec2<f32>,
}

@group(0) @binding(0) var<uniform> globals: Globals;
@group(1) @binding(0) var atlas_texture: texture_2d<f32>;
@group(1) @binding(1) var atlas_sampler: sampler;

struct TexIn {
    @location(0) pos: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) color: vec4<f32>,
}

struct TexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@vertex
fn vs_main(in: TexIn) -> TexOut {
    var out: TexOut;
    out.clip = vec4<f32>(
        (in.pos / globals.resolution * 2.0 - 1.0) * vec2<f32>(1.0, -1.0),
        0.0, 1.0,
    );
    out.uv = in.uv;
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: TexOut) -> @location(0) vec4<f32> {
    return textureSample(atlas_texture, atlas_sampler, in.uv) * in.color;
}
`
